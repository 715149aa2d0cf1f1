package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osrorders/internal/core/domain/model/order"
	"osrorders/internal/core/domain/services"
)

func TestNewSandboxCommandGenerator(t *testing.T) {
	_, err := services.NewSandboxCommandGenerator("  ")
	assert.Error(t, err)

	gen, err := services.NewSandboxCommandGenerator("1")
	require.NoError(t, err)

	cmd, err := gen.InsertCarrier(2, "T925001")
	require.NoError(t, err)
	assert.Equal(t, "simosr1 -i 2 T925001", cmd)
}

func TestNewSandboxCommandGenerator_NormalizesOsrID(t *testing.T) {
	for _, id := range []string{"1", "osr1", "OSR1", " osr1 "} {
		gen, err := services.NewSandboxCommandGenerator(id)
		require.NoError(t, err)

		cmd, err := gen.InsertCarrier(2, "T925001")
		require.NoError(t, err)
		assert.Equal(t, "simosr1 -i 2 T925001", cmd, "id %q", id)
	}
}

func TestSandboxCommandGenerator_CarrierCommands(t *testing.T) {
	gen, err := services.NewSandboxCommandGenerator("1")
	require.NoError(t, err)

	t.Run("remove", func(t *testing.T) {
		cmd, err := gen.RemoveCarrier(3, "T925009")
		require.NoError(t, err)
		assert.Equal(t, "simosr1 -r 3 T925009", cmd)
	})

	t.Run("invalid element", func(t *testing.T) {
		_, err := gen.InsertCarrier(0, "T925001")
		assert.Error(t, err)
	})

	t.Run("missing carrier", func(t *testing.T) {
		_, err := gen.RemoveCarrier(1, " ")
		assert.Error(t, err)
	})
}

func TestSandboxCommandGenerator_ElementCommands(t *testing.T) {
	gen, err := services.NewSandboxCommandGenerator("1")
	require.NoError(t, err)

	tests := []struct {
		name string
		kind services.ElementKind
		want string
	}{
		{"workflow element", services.ElementWorkflow, "simosr1 --enable-element e 4"},
		{"station", services.ElementStation, "simosr1 --enable-element s 4"},
		{"gateway", services.ElementGateway, "simosr1 --enable-element g 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := gen.EnableElement(4, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
		})
	}

	t.Run("disable", func(t *testing.T) {
		cmd, err := gen.DisableElement(4, services.ElementStation)
		require.NoError(t, err)
		assert.Equal(t, "simosr1 --disable-element s 4", cmd)
	})

	t.Run("invalid kind", func(t *testing.T) {
		_, err := gen.EnableElement(4, services.ElementUndefined)
		assert.Error(t, err)
	})
}

func TestCarrierFromDocument(t *testing.T) {
	builder, err := order.NewDocumentBuilder(order.BuildConfig{Name: "src"})
	require.NoError(t, err)

	t.Run("pick order container", func(t *testing.T) {
		spec, err := order.NewOrderSpec(order.Standard, []order.Field{
			{Name: order.FieldQuantity, Value: "10"},
			{Name: order.FieldContainerNumber, Value: "T925001"},
			{Name: order.FieldProductCode, Value: "test01"},
			{Name: order.FieldProductName, Value: "Test-Product-1"},
			{Name: order.FieldOrderNumber, Value: "1"},
		}, false)
		require.NoError(t, err)

		doc, err := builder.Build(spec)
		require.NoError(t, err)
		payload, err := doc.XML()
		require.NoError(t, err)

		carrier, err := services.CarrierFromDocument(payload)
		require.NoError(t, err)
		assert.Equal(t, "T925001", carrier)
	})

	t.Run("goods-in compartment", func(t *testing.T) {
		spec, err := order.NewOrderSpec(order.GoodsIn, []order.Field{
			{Name: order.FieldQuantity, Value: "100"},
			{Name: order.FieldContainerNumber, Value: "T925009"},
			{Name: order.FieldProductCode, Value: "test03"},
			{Name: order.FieldProductName, Value: "Test-Product-3"},
			{Name: order.FieldContainerType, Value: "full"},
			{Name: order.FieldOrderNumber, Value: "4"},
		}, false)
		require.NoError(t, err)

		doc, err := builder.Build(spec)
		require.NoError(t, err)
		payload, err := doc.XML()
		require.NoError(t, err)

		carrier, err := services.CarrierFromDocument(payload)
		require.NoError(t, err)
		assert.Equal(t, "T925009", carrier)
	})

	t.Run("manual pick has no carrier", func(t *testing.T) {
		spec, err := order.NewOrderSpec(order.Manual, []order.Field{
			{Name: order.FieldQuantity, Value: "3"},
			{Name: order.FieldProductCode, Value: "test02"},
			{Name: order.FieldProductName, Value: "Test-Product-2"},
			{Name: order.FieldOrderNumber, Value: "7"},
		}, false)
		require.NoError(t, err)

		doc, err := builder.Build(spec)
		require.NoError(t, err)
		payload, err := doc.XML()
		require.NoError(t, err)

		_, err = services.CarrierFromDocument(payload)
		assert.ErrorIs(t, err, services.ErrNoCarrierInDocument)
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := services.CarrierFromDocument("<host2osr><pick_order")
		require.Error(t, err)
		assert.NotErrorIs(t, err, services.ErrNoCarrierInDocument)
	})
}
