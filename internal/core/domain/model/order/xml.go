package order

import "encoding/xml"

// Wire representation of the OSR host interface documents. Struct field
// order mirrors the attribute and element order the remote schema mandates;
// encoding/xml preserves it, so these types are the canonical element trees.

type host2osrEnvelope struct {
	XMLName        xml.Name               `xml:"host2osr"`
	PickOrder      *pickOrderElement      `xml:"pick_order,omitempty"`
	InventoryOrder *inventoryOrderElement `xml:"inventory_order,omitempty"`
	GoodsInOrder   *goodsInOrderElement   `xml:"goods_in_order,omitempty"`
	TransportOrder *transportOrderElement `xml:"transport_order,omitempty"`
}

type pickOrderElement struct {
	OrderNumber     string                 `xml:"order_number,attr"`
	ContainerNumber string                 `xml:"container_number,attr,omitempty"`
	ProcessingMode  string                 `xml:"processing_mode,attr"`
	Lines           []pickOrderLineElement `xml:"pick_order_line"`
}

type pickOrderLineElement struct {
	Quantity   int            `xml:"quantity,attr"`
	TargetSlot string         `xml:"target_slot,attr,omitempty"`
	Product    productElement `xml:"product"`
}

type inventoryOrderElement struct {
	OrderNumber     string         `xml:"order_number,attr"`
	ProcessingMode  string         `xml:"processing_mode,attr"`
	ContainerNumber string         `xml:"container_number,attr"`
	Product         productElement `xml:"product"`
}

type goodsInOrderElement struct {
	OrderNumber       string                  `xml:"order_number,attr"`
	CompartmentNumber string                  `xml:"compartment_number,attr,omitempty"`
	CompartmentType   string                  `xml:"compartment_type,attr,omitempty"`
	ProcessingMode    string                  `xml:"processing_mode,attr"`
	Line              goodsInOrderLineElement `xml:"goods_in_order_line"`
}

type goodsInOrderLineElement struct {
	QuantityAdvertised int            `xml:"quantity_advertised,attr"`
	Product            productElement `xml:"product"`
}

type transportOrderElement struct {
	OrderNumber             string                    `xml:"order_number,attr"`
	ProcessingMode          string                    `xml:"processing_mode,attr"`
	Preannouncement         string                    `xml:"preannouncement,attr"`
	NewOwner                string                    `xml:"new_owner,attr"`
	RequiresRouteAssistance string                    `xml:"requires_route_assistance,attr"`
	Line                    transportOrderLineElement `xml:"transport_order_line"`
	Container               containerElement          `xml:"container"`
}

type transportOrderLineElement struct {
	TargetZone string `xml:"target_zone,attr"`
}

type containerElement struct {
	ContainerNumber string                `xml:"container_number,attr"`
	ContainerType   string                `xml:"container_type,attr"`
	CompartmentType string                `xml:"compartment_type,attr"`
	Owner           string                `xml:"owner,attr"`
	Slots           []slotContentsElement `xml:"slot_contents"`
}

type slotContentsElement struct {
	SlotNumber string                    `xml:"slot_number,attr"`
	Line       inventoryOrderLineElement `xml:"inventory_order_line"`
}

type inventoryOrderLineElement struct {
	CurrentExpectedQuantity int            `xml:"current_expected_quantity,attr"`
	Product                 productElement `xml:"product"`
}

type productElement struct {
	ProductCode   string                `xml:"product_code,attr"`
	Name          string                `xml:"name,attr,omitempty"`
	Returned      string                `xml:"returned,attr,omitempty"`
	BundleSize    string                `xml:"bundle_size,attr,omitempty"`
	CapacitySpecs []capacitySpecElement `xml:"capacity_spec,omitempty"`
}

type capacitySpecElement struct {
	CompartmentType string `xml:"compartment_type,attr"`
	MaximumQuantity int    `xml:"maximum_quantity,attr"`
}
