package model

// ItemKind selects how an item is drawn.
type ItemKind string

const (
	ItemText    ItemKind = "text"
	ItemField   ItemKind = "field"
	ItemImage   ItemKind = "image"
	ItemBarcode ItemKind = "barcode" // Code 128
	ItemQRCode  ItemKind = "qrcode"
	ItemPDF417  ItemKind = "pdf417"
	ItemLine    ItemKind = "line"
	ItemRect    ItemKind = "rect"
	ItemUnknown ItemKind = "unknown"
)

// ItemKindInfo describes an item kind for settings panels and renderers.
type ItemKindInfo struct {
	Kind     ItemKind
	Label    string
	Bindable bool     // content may come from a data field
	Settings []string // item attributes the kind reads
}

// RegionKindInfo describes a region type.
type RegionKindInfo struct {
	Type       RegionType
	Label      string
	HoldsItems bool // free-layout content that rides with the region's top
	Reflows    bool // content is laid out by pagination, not coordinates
	Settings   []string
}

var itemKinds = map[ItemKind]ItemKindInfo{
	ItemText:    {Kind: ItemText, Label: "Text", Settings: []string{"text", "font", "color", "align"}},
	ItemField:   {Kind: ItemField, Label: "Field", Bindable: true, Settings: []string{"field", "alias", "text", "font", "color", "align"}},
	ItemImage:   {Kind: ItemImage, Label: "Image", Bindable: true, Settings: []string{"src", "field"}},
	ItemBarcode: {Kind: ItemBarcode, Label: "Barcode", Bindable: true, Settings: []string{"field", "text"}},
	ItemQRCode:  {Kind: ItemQRCode, Label: "QR code", Bindable: true, Settings: []string{"field", "text"}},
	ItemPDF417:  {Kind: ItemPDF417, Label: "PDF417", Bindable: true, Settings: []string{"field", "text"}},
	ItemLine:    {Kind: ItemLine, Label: "Line", Settings: []string{"color", "lineWidth"}},
	ItemRect:    {Kind: ItemRect, Label: "Rectangle", Settings: []string{"color", "fillColor", "lineWidth"}},
}

var regionKinds = map[RegionType]RegionKindInfo{
	RegionFree: {
		Type:       RegionFree,
		Label:      "Free layout",
		HoldsItems: true,
		Settings:   []string{"items"},
	},
	RegionTable: {
		Type:     RegionTable,
		Label:    "Table",
		Reflows:  true,
		Settings: []string{"cols", "showSubtotal", "showTotal", "fontSize"},
	},
}

// UnknownRegion is returned by LookupRegionKind for unregistered types.
var UnknownRegion = RegionKindInfo{Type: "unknown", Label: "Unknown"}

// LookupItemKind resolves an item kind. An empty kind is text, or field when
// the item is bound; an unregistered kind yields the unknown entry and false.
func LookupItemKind(it Item) (ItemKindInfo, bool) {
	k := it.Kind
	if k == "" {
		k = ItemText
		if it.Field != "" {
			k = ItemField
		}
	}
	info, ok := itemKinds[k]
	if !ok {
		return ItemKindInfo{Kind: ItemUnknown, Label: "Unknown"}, false
	}
	return info, true
}

// LookupRegionKind resolves a region type.
func LookupRegionKind(t RegionType) (RegionKindInfo, bool) {
	info, ok := regionKinds[t]
	if !ok {
		return UnknownRegion, false
	}
	return info, true
}

// ItemKinds lists the registered item kinds.
func ItemKinds() []ItemKindInfo {
	order := []ItemKind{ItemText, ItemField, ItemImage, ItemBarcode, ItemQRCode, ItemPDF417, ItemLine, ItemRect}
	out := make([]ItemKindInfo, 0, len(order))
	for _, k := range order {
		out = append(out, itemKinds[k])
	}
	return out
}
