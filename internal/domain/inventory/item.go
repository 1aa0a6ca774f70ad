package inventory

import (
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// RangedVerb holds the firing profile of a ranged weapon template. Damage and
// armor penetration come from the default projectile.
type RangedVerb struct {
	WarmupSeconds   float64
	CooldownSeconds float64
	MinRange        float64
	MaxRange        float64
	BurstCount      int
	BurstDelayTicks int
	Damage          float64
	ArmorPen        float64

	// Accuracy percentages at the four fixed evaluation bands.
	AccuracyClose  float64
	AccuracyShort  float64
	AccuracyMedium float64
	AccuracyLong   float64
}

// MeleeToolHead is one attack mode of a melee weapon (blade, point, shaft...).
type MeleeToolHead struct {
	Label           string
	Power           float64
	ArmorPen        float64
	CooldownSeconds float64
}

// Template is the immutable definition an item is instantiated from. The host
// owns these; the engine reads base stats and structural tags off them and
// pre-scores them for "globally available" previews.
type Template struct {
	ID    shared.TemplateID
	Label string

	IsRangedWeapon bool
	IsMeleeWeapon  bool
	IsTool         bool
	IsAmmo         bool

	DestroyOnDrop     bool
	Explosive         bool
	ManualCast        bool
	UsableWithShields bool
	Rottable          bool

	MarketValue float64

	// AcceptedAmmo lists the ammunition templates this weapon fires, when the
	// ammo companion system is active.
	AcceptedAmmo []shared.TemplateID

	BaseStats       map[stats.StatID]float64
	EquippedOffsets map[stats.StatID]float64

	Verb       *RangedVerb
	MeleeTools []MeleeToolHead
}

// SubjectKey identifies the template in log output.
func (t *Template) SubjectKey() string { return "template:" + string(t.ID) }

// SubjectKind classifies the template for custom stat dispatch.
func (t *Template) SubjectKind() stats.SubjectKind { return subjectKind(t) }

// IsConcrete is false: templates are definitions, not physical instances.
func (t *Template) IsConcrete() bool { return false }

// NativeStat looks up a base stat value. Missing stats report false.
func (t *Template) NativeStat(id stats.StatID) (float64, bool) {
	v, ok := t.BaseStats[id]
	return v, ok
}

// TemplateRef lets caches reach the definition behind any subject.
func (t *Template) TemplateRef() *Template { return t }

// Item is one concrete physical instance on the map or in a pawn's inventory.
// Lifecycle is controlled entirely by the host; the engine reads and proposes.
type Item struct {
	ID       shared.ItemID
	Template *Template

	HitPoints    int
	MaxHitPoints int
	StackCount   int

	Forbidden  bool
	ReservedBy shared.PawnID
	BiocodedTo shared.PawnID
}

// SubjectKey identifies the item in log output.
func (i *Item) SubjectKey() string {
	return fmt.Sprintf("item:%s(%s)", i.ID, i.Template.ID)
}

// SubjectKind classifies the item for custom stat dispatch.
func (i *Item) SubjectKind() stats.SubjectKind { return subjectKind(i.Template) }

// IsConcrete is true for physical instances.
func (i *Item) IsConcrete() bool { return true }

// NativeStat looks up the base stat plus any equipped offset the template
// defines for it.
func (i *Item) NativeStat(id stats.StatID) (float64, bool) {
	v, ok := i.Template.BaseStats[id]
	if off, hasOff := i.Template.EquippedOffsets[id]; hasOff {
		return v + off, true
	}
	return v, ok
}

// TemplateRef lets caches reach the definition behind any subject.
func (i *Item) TemplateRef() *Template { return i.Template }

// HealthRatio is current over max durability, clamped to [0,1].
func (i *Item) HealthRatio() float64 {
	if i.MaxHitPoints <= 0 {
		return 1
	}
	r := float64(i.HitPoints) / float64(i.MaxHitPoints)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// MarketValue is the per-unit market value of the instance.
func (i *Item) MarketValue() float64 { return i.Template.MarketValue }

func subjectKind(t *Template) stats.SubjectKind {
	switch {
	case t.IsRangedWeapon:
		return stats.KindRangedWeapon
	case t.IsMeleeWeapon:
		return stats.KindMeleeWeapon
	case t.IsTool:
		return stats.KindTool
	default:
		return stats.KindOther
	}
}

// healthCurvePoints is the hit-points score curve: monotonically increasing
// from 0 at ratio 0 to 1 at ratio 1, penalizing damaged items more steeply
// below half durability.
var healthCurvePoints = [][2]float64{
	{0.0, 0.0},
	{0.5, 0.3},
	{0.6, 0.7},
	{0.9, 0.95},
	{1.0, 1.0},
}

// HealthCurve evaluates the durability score curve at the given ratio.
func HealthCurve(ratio float64) float64 {
	pts := healthCurvePoints
	if ratio <= pts[0][0] {
		return pts[0][1]
	}
	for i := 1; i < len(pts); i++ {
		if ratio <= pts[i][0] {
			x0, y0 := pts[i-1][0], pts[i-1][1]
			x1, y1 := pts[i][0], pts[i][1]
			return y0 + (y1-y0)*(ratio-x0)/(x1-x0)
		}
	}
	return pts[len(pts)-1][1]
}
