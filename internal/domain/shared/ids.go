package shared

// Identifier types for entities owned by the host simulation. The engine
// never fabricates these; it only carries them between the host's snapshots
// and the actions it emits.
type (
	// PawnID identifies a colonist.
	PawnID string

	// ItemID identifies one concrete physical item instance.
	ItemID string

	// TemplateID identifies the immutable definition an item is made from.
	TemplateID string

	// WorkTypeID identifies a work type (mining, cooking, ...).
	WorkTypeID string

	// TraitID identifies a pawn trait definition.
	TraitID string

	// SkillID identifies a pawn skill definition.
	SkillID string

	// CapacityID identifies a pawn health capacity (sight, manipulation, ...).
	CapacityID string

	// WorkTagID identifies a work capability tag (violent, caring, ...).
	WorkTagID string

	// MapID identifies one independently scheduled map region.
	MapID string
)
