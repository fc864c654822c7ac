package core

// TargetDescriptor identifies what kind of entity a recording was captured
// against. It is an identity hint used on load to spawn a fresh entity of
// matching kind; it never restores the original entity.
type TargetDescriptor struct {
	ModelID    int    `json:"modelId"`
	EntityType string `json:"entityType"`
}
