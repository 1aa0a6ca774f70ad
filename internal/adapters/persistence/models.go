// Package persistence implements the domain repositories over GORM. One
// model per table; repositories convert between models and domain entities.
package persistence

// RuleModel represents the rules table. Kind and ID form a composite key
// because rule ids are allocated per kind.
type RuleModel struct {
	Kind      int    `gorm:"column:kind;primaryKey;not null"`
	ID        int    `gorm:"column:id;primaryKey;not null"`
	Label     string `gorm:"column:label;not null"`
	Protected bool   `gorm:"column:protected;not null;default:false"`
	Mode      int    `gorm:"column:mode;not null"`
	AmmoCount int    `gorm:"column:ammo_count;not null;default:0"`
	WorkType  string `gorm:"column:work_type"`

	// Tri-state filters: null means "don't care"
	FilterExplosive         *bool `gorm:"column:filter_explosive"`
	FilterManualCast        *bool `gorm:"column:filter_manual_cast"`
	FilterUsableWithShields *bool `gorm:"column:filter_usable_with_shields"`
	FilterRottable          *bool `gorm:"column:filter_rottable"`
	FilterRangedTool        *bool `gorm:"column:filter_ranged_tool"`
}

func (RuleModel) TableName() string {
	return "rules"
}

// StatWeightModel represents the rule_stat_weights table
type StatWeightModel struct {
	RuleKind  int     `gorm:"column:rule_kind;primaryKey;not null"`
	RuleID    int     `gorm:"column:rule_id;primaryKey;not null"`
	Stat      string  `gorm:"column:stat;primaryKey;not null"`
	Weight    float64 `gorm:"column:weight;not null"`
	Protected bool    `gorm:"column:protected;not null;default:false"`
}

func (StatWeightModel) TableName() string {
	return "rule_stat_weights"
}

// StatLimitModel represents the rule_stat_limits table
type StatLimitModel struct {
	RuleKind int      `gorm:"column:rule_kind;primaryKey;not null"`
	RuleID   int      `gorm:"column:rule_id;primaryKey;not null"`
	Stat     string   `gorm:"column:stat;primaryKey;not null"`
	Min      *float64 `gorm:"column:min"`
	Max      *float64 `gorm:"column:max"`
}

func (StatLimitModel) TableName() string {
	return "rule_stat_limits"
}

// ListingModel represents the rule_listings table. Listing is the tri-state
// whitelist/blacklist value; unset entries are simply absent.
type ListingModel struct {
	RuleKind int    `gorm:"column:rule_kind;primaryKey;not null"`
	RuleID   int    `gorm:"column:rule_id;primaryKey;not null"`
	Template string `gorm:"column:template;primaryKey;not null"`
	Listing  int    `gorm:"column:listing;not null"`
}

func (ListingModel) TableName() string {
	return "rule_listings"
}

// LoadoutModel represents the loadouts table
type LoadoutModel struct {
	ID                    int    `gorm:"column:id;primaryKey;not null"`
	Label                 string `gorm:"column:label;not null"`
	Priority              int    `gorm:"column:priority;not null;default:0"`
	Primary               int    `gorm:"column:primary_type;not null;default:0"`
	PrimaryRangedRuleID   int    `gorm:"column:primary_ranged_rule_id;not null;default:0"`
	PrimaryMeleeRuleID    int    `gorm:"column:primary_melee_rule_id;not null;default:0"`
	ToolRuleID            int    `gorm:"column:tool_rule_id;not null;default:0"`
	DropUnassignedWeapons bool   `gorm:"column:drop_unassigned_weapons;not null;default:false"`
}

func (LoadoutModel) TableName() string {
	return "loadouts"
}

// LoadoutRuleModel represents the loadout_sidearm_rules table: the ordered
// sidearm rule references of one loadout. Slot is "ranged" or "melee".
type LoadoutRuleModel struct {
	LoadoutID int    `gorm:"column:loadout_id;primaryKey;not null"`
	Slot      string `gorm:"column:slot;primaryKey;not null"`
	Position  int    `gorm:"column:position;primaryKey;not null"`
	RuleID    int    `gorm:"column:rule_id;not null"`
}

func (LoadoutRuleModel) TableName() string {
	return "loadout_sidearm_rules"
}

// RequirementModel represents the loadout_requirements table: trait, work
// tag and passion predicates. ReqType is "trait", "worktag" or "passion";
// Value holds the required bool (0/1) or the minimum passion level.
type RequirementModel struct {
	LoadoutID int    `gorm:"column:loadout_id;primaryKey;not null"`
	ReqType   string `gorm:"column:req_type;primaryKey;not null"`
	Key       string `gorm:"column:key;primaryKey;not null"`
	Value     int    `gorm:"column:value;not null"`
}

func (RequirementModel) TableName() string {
	return "loadout_requirements"
}

// MetricLimitModel represents the loadout_metric_limits table
type MetricLimitModel struct {
	LoadoutID  int      `gorm:"column:loadout_id;primaryKey;not null"`
	MetricKind int      `gorm:"column:metric_kind;primaryKey;not null"`
	MetricID   string   `gorm:"column:metric_id;primaryKey;not null"`
	Min        *float64 `gorm:"column:min"`
	Max        *float64 `gorm:"column:max"`
}

func (MetricLimitModel) TableName() string {
	return "loadout_metric_limits"
}

// MetricWeightModel represents the loadout_metric_weights table
type MetricWeightModel struct {
	LoadoutID  int     `gorm:"column:loadout_id;primaryKey;not null"`
	MetricKind int     `gorm:"column:metric_kind;primaryKey;not null"`
	MetricID   string  `gorm:"column:metric_id;primaryKey;not null"`
	Weight     float64 `gorm:"column:weight;not null"`
}

func (MetricWeightModel) TableName() string {
	return "loadout_metric_weights"
}

// BindingModel represents the pawn_bindings table
type BindingModel struct {
	Pawn      string `gorm:"column:pawn;primaryKey;not null"`
	LoadoutID int    `gorm:"column:loadout_id;not null;default:0"`
	Auto      bool   `gorm:"column:auto;not null;default:true"`
}

func (BindingModel) TableName() string {
	return "pawn_bindings"
}

// StatRangeModel represents the stat_ranges table: the persisted deviation
// ranges behind score normalization.
type StatRangeModel struct {
	Stat string  `gorm:"column:stat;primaryKey;not null"`
	Lo   float64 `gorm:"column:lo;not null"`
	Hi   float64 `gorm:"column:hi;not null"`
}

func (StatRangeModel) TableName() string {
	return "stat_ranges"
}
