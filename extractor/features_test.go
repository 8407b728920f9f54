package extractor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridoystarlord/sprocmap/schema"
)

func TestCombinedFeature(t *testing.T) {
	row := schema.TableOperationRow{TableName: "Orders", ProcedureName: "GetOrders", OperationType: schema.Read}
	assert.Equal(t, "Orders GetOrders READ", CombinedFeature(row))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"order_details", "getorders", "write"}, Tokenize("Order_Details GetOrders WRITE"))
	assert.Equal(t, []string{"bc", "dbo"}, Tokenize(`a bc "dbo".x`))
	assert.Empty(t, Tokenize("a b c"))
}

func TestVectorizer_FitTransform(t *testing.T) {
	var v Vectorizer
	vectors := v.FitTransform([]string{
		"Orders GetOrders READ",
		"Orders UpdateOrder WRITE",
		"x",
	})

	require.Len(t, vectors, 3)
	assert.Equal(t, []string{"getorders", "orders", "read", "updateorder", "write"}, v.Terms())

	for i, vec := range vectors[:2] {
		var norm float64
		for _, x := range vec {
			norm += x * x
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9, "vector %d", i)
	}
	for _, x := range vectors[2] {
		assert.Zero(t, x)
	}

	// "orders" appears in two documents so it weighs less than "getorders".
	orders, getOrders := 1, 0
	assert.Less(t, vectors[0][orders], vectors[0][getOrders])
}
