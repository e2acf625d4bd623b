package model

// ItemType is the closed set of content variant tags. The tag together with
// ItemID forms the polymorphic reference on a Content row: adding a new
// variant means adding a table plus a registry entry, the envelope schema
// never changes.
type ItemType string

const (
	ItemText  ItemType = "text"
	ItemFile  ItemType = "file"
	ItemImage ItemType = "image"
	ItemVideo ItemType = "video"
)

// Content is the envelope binding one polymorphic item into a module at a
// fixed position. Order is dense and 0-based within the module; the
// composite unique index enforces that at the storage layer.
// swagger:model Content
type Content struct {
	BaseModel
	ModuleID uint     `gorm:"uniqueIndex:idx_contents_module_order;not null" json:"moduleId"`
	Order    int      `gorm:"column:item_order;uniqueIndex:idx_contents_module_order;not null;default:0" json:"order"`
	ItemType ItemType `gorm:"size:20;not null" json:"itemType"`
	ItemID   uint     `gorm:"not null" json:"itemId"`
}

func (Content) TableName() string {
	return "contents"
}

// ItemDescriptor tells the rest of the system how to materialize one variant.
type ItemDescriptor struct {
	Type ItemType
	New  func() Item
}

var itemRegistry = map[ItemType]ItemDescriptor{
	ItemText:  {Type: ItemText, New: func() Item { return &Text{} }},
	ItemFile:  {Type: ItemFile, New: func() Item { return &File{} }},
	ItemImage: {Type: ItemImage, New: func() Item { return &Image{} }},
	ItemVideo: {Type: ItemVideo, New: func() Item { return &Video{} }},
}

// ResolveItemType validates a caller-supplied tag against the registry.
// Unknown tags are rejected here, before any database interaction.
func ResolveItemType(tag string) (ItemDescriptor, bool) {
	desc, ok := itemRegistry[ItemType(tag)]
	return desc, ok
}

// ItemTypes returns the registered variant tags, for validation messages.
func ItemTypes() []ItemType {
	return []ItemType{ItemText, ItemFile, ItemImage, ItemVideo}
}
