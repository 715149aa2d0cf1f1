package order

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"osrorders/internal/pkg/errs"
	"osrorders/internal/pkg/guard"
)

const (
	processingModeStandard = "standard"
	processingModeManual   = "manual"
	processingModeRenewal  = "renewal"
)

// BuildConfig carries the installation-specific values baked into every
// produced document: the operator name used as the order number prefix and
// the compartment capacity specs advertised on goods-in products.
type BuildConfig struct {
	Name          string
	CapacitySpecs map[string]int
}

// DocumentBuilder turns validated OrderSpecs into host2osr documents.
//
// The builder is deterministic: the same spec always yields byte-identical
// XML, regardless of the order the operator entered the fields, so that a
// persisted document snapshot can be compared against a later rebuild.
type DocumentBuilder struct {
	name          string
	capacitySpecs []capacitySpecElement

	guard guard.ConstructorGuard
}

// NewDocumentBuilder creates a builder for the named installation.
func NewDocumentBuilder(cfg BuildConfig) (DocumentBuilder, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return DocumentBuilder{}, errs.NewValueIsRequiredError("cfg.Name")
	}
	for compartment, maxQty := range cfg.CapacitySpecs {
		if maxQty <= 0 {
			return DocumentBuilder{}, errs.NewValueIsOutOfRangeError(
				fmt.Sprintf("cfg.CapacitySpecs[%q]", compartment), maxQty, 1, "unbounded")
		}
	}

	return DocumentBuilder{
		name:          cfg.Name,
		capacitySpecs: capacitySpecsOf(cfg.CapacitySpecs),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the builder was created through the constructor.
func (b DocumentBuilder) Validate() error {
	return b.guard.Validate(errs.NewValueIsRequiredError("DocumentBuilder"))
}

// Build validates the spec against its kind's schema and produces a Draft
// document. Validation stops at the first failing field in schema order and
// returns a *ValidationError; the input is never coerced or truncated.
func (b DocumentBuilder) Build(spec OrderSpec) (*Document, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	values, err := validateHeader(spec)
	if err != nil {
		return nil, err
	}

	lines, err := pickLinesOf(spec, values)
	if err != nil {
		return nil, err
	}

	orderNumber := fmt.Sprintf("%s-%s-%s", b.name, spec.Kind().numberInfix(), values[FieldOrderNumber])

	var envelope host2osrEnvelope
	switch spec.Kind() {
	case Standard:
		envelope.PickOrder = &pickOrderElement{
			OrderNumber:     orderNumber,
			ContainerNumber: values[FieldContainerNumber],
			ProcessingMode:  processingModeStandard,
			Lines:           standardPickLines(lines),
		}
	case Manual:
		envelope.PickOrder = &pickOrderElement{
			OrderNumber:    orderNumber,
			ProcessingMode: processingModeManual,
			Lines:          manualPickLines(lines),
		}
	case Inventory:
		envelope.InventoryOrder = &inventoryOrderElement{
			OrderNumber:     orderNumber,
			ProcessingMode:  processingModeStandard,
			ContainerNumber: values[FieldContainerNumber],
			Product:         productElement{ProductCode: values[FieldProductCode]},
		}
	case GoodsIn:
		envelope.GoodsInOrder = b.goodsInOrder(orderNumber, processingModeStandard, values)
		envelope.GoodsInOrder.CompartmentNumber = values[FieldContainerNumber]
		envelope.GoodsInOrder.CompartmentType = values[FieldContainerType]
	case GoodsAdd:
		envelope.GoodsInOrder = b.goodsInOrder(orderNumber, processingModeRenewal, values)
	case Transport:
		slots, err := slotContentsOf(spec, values)
		if err != nil {
			return nil, err
		}
		envelope.TransportOrder = &transportOrderElement{
			OrderNumber:             orderNumber,
			ProcessingMode:          processingModeStandard,
			Preannouncement:         "true",
			NewOwner:                values[FieldNewOwner],
			RequiresRouteAssistance: "false",
			Line:                    transportOrderLineElement{TargetZone: values[FieldTargetZone]},
			Container: containerElement{
				ContainerNumber: values[FieldContainerNumber],
				ContainerType:   values[FieldContainerType],
				CompartmentType: values[FieldCompartmentType],
				Owner:           values[FieldOwner],
				Slots:           slots,
			},
		}
	default:
		return nil, errs.NewValueIsInvalidError("spec.Kind")
	}

	return newDocument(orderNumber, spec.Kind(), envelope), nil
}

func (b DocumentBuilder) goodsInOrder(orderNumber, mode string, values map[string]string) *goodsInOrderElement {
	return &goodsInOrderElement{
		OrderNumber:    orderNumber,
		ProcessingMode: mode,
		Line: goodsInOrderLineElement{
			QuantityAdvertised: mustAtoi(values[FieldQuantity]),
			Product: productElement{
				ProductCode:   values[FieldProductCode],
				Name:          values[FieldProductName],
				Returned:      "false",
				BundleSize:    "1",
				CapacitySpecs: b.capacitySpecs,
			},
		},
	}
}

// pickLine is a validated pick order line, ready for rendering.
type pickLine struct {
	quantity    int
	productCode string
	productName string
}

// validateHeader applies the kind's schema rules and returns the accepted
// values keyed by field name.
func validateHeader(spec OrderSpec) (map[string]string, error) {
	rules := schemaFor(spec.Kind())
	values := make(map[string]string, len(rules))
	for _, rule := range rules {
		value, ok := spec.Value(rule.name)
		if !ok {
			return nil, &ValidationError{Field: rule.name, Reason: "is required"}
		}
		if err := rule.validate(value); err != nil {
			return nil, &ValidationError{Field: rule.name, Reason: err.Error()}
		}
		values[rule.name] = value
	}
	return values, nil
}

// pickLinesOf validates the spec's order lines, or derives a single line
// from the header fields when the spec carries none. Non-pick kinds yield
// no lines.
func pickLinesOf(spec OrderSpec, values map[string]string) ([]pickLine, error) {
	if !spec.Kind().isPick() {
		return nil, nil
	}

	raw := spec.Lines()
	if len(raw) == 0 {
		return []pickLine{{
			quantity:    mustAtoi(values[FieldQuantity]),
			productCode: values[FieldProductCode],
			productName: values[FieldProductName],
		}}, nil
	}

	lines := make([]pickLine, 0, len(raw))
	for i, line := range raw {
		parsed := pickLine{}
		for _, rule := range lineSchema() {
			value, ok := lineValue(line, rule.name)
			if !ok {
				return nil, &ValidationError{
					Field:  rule.name,
					Reason: fmt.Sprintf("is required on order line %d", i+1),
				}
			}
			if err := rule.validate(value); err != nil {
				return nil, &ValidationError{
					Field:  rule.name,
					Reason: fmt.Sprintf("order line %d: %s", i+1, err.Error()),
				}
			}
			switch rule.name {
			case FieldQuantity:
				parsed.quantity = mustAtoi(value)
			case FieldProductCode:
				parsed.productCode = value
			case FieldProductName:
				parsed.productName = value
			}
		}
		lines = append(lines, parsed)
	}
	return lines, nil
}

// slotContentsOf validates the spec's slot entries and renders them as the
// container's slot_contents elements, or derives a single slot from the
// header fields when the spec carries none.
func slotContentsOf(spec OrderSpec, values map[string]string) ([]slotContentsElement, error) {
	raw := spec.Lines()
	if len(raw) == 0 {
		return []slotContentsElement{slotContents(
			values[FieldSlotNumber],
			mustAtoi(values[FieldQuantity]),
			values[FieldProductCode],
			values[FieldProductName],
		)}, nil
	}

	slots := make([]slotContentsElement, 0, len(raw))
	for i, line := range raw {
		slotValues := make(map[string]string, len(slotSchema()))
		for _, rule := range slotSchema() {
			value, ok := lineValue(line, rule.name)
			if !ok {
				return nil, &ValidationError{
					Field:  rule.name,
					Reason: fmt.Sprintf("is required on slot %d", i+1),
				}
			}
			if err := rule.validate(value); err != nil {
				return nil, &ValidationError{
					Field:  rule.name,
					Reason: fmt.Sprintf("slot %d: %s", i+1, err.Error()),
				}
			}
			slotValues[rule.name] = value
		}
		slots = append(slots, slotContents(
			slotValues[FieldSlotNumber],
			mustAtoi(slotValues[FieldQuantity]),
			slotValues[FieldProductCode],
			slotValues[FieldProductName],
		))
	}
	return slots, nil
}

func slotContents(slotNumber string, quantity int, productCode, productName string) slotContentsElement {
	return slotContentsElement{
		SlotNumber: slotNumber,
		Line: inventoryOrderLineElement{
			CurrentExpectedQuantity: quantity,
			Product: productElement{
				ProductCode: productCode,
				Name:        productName,
				BundleSize:  "1",
			},
		},
	}
}

func standardPickLines(lines []pickLine) []pickOrderLineElement {
	out := make([]pickOrderLineElement, 0, len(lines))
	for _, line := range lines {
		out = append(out, pickOrderLineElement{
			Quantity:   line.quantity,
			TargetSlot: "1",
			Product: productElement{
				ProductCode: line.productCode,
				Name:        line.productName,
				Returned:    "false",
			},
		})
	}
	return out
}

func manualPickLines(lines []pickLine) []pickOrderLineElement {
	out := make([]pickOrderLineElement, 0, len(lines))
	for _, line := range lines {
		out = append(out, pickOrderLineElement{
			Quantity: line.quantity,
			Product: productElement{
				ProductCode: line.productCode,
				Name:        line.productName,
			},
		})
	}
	return out
}

// capacitySpecsOf renders the configured capacity specs sorted by
// compartment type so that document output stays deterministic.
func capacitySpecsOf(specs map[string]int) []capacitySpecElement {
	if len(specs) == 0 {
		return nil
	}
	types := make([]string, 0, len(specs))
	for t := range specs {
		types = append(types, t)
	}
	sort.Strings(types)

	out := make([]capacitySpecElement, 0, len(types))
	for _, t := range types {
		out = append(out, capacitySpecElement{CompartmentType: t, MaximumQuantity: specs[t]})
	}
	return out
}

// mustAtoi converts a value that already passed validateQuantity.
func mustAtoi(value string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(value))
	return n
}
