package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExprFunctionEvaluatesArithmetic(t *testing.T) {
	ctx := &FunctionContext{Data: map[string]interface{}{"x": 3.0, "y": 4.0}}
	result, err := Execute("expr", ctx, []interface{}{"x + y"})
	require.NoError(t, err)
	assert.Equal(t, float64(7), result)
}

func TestExprFunctionRejectsUnresolvedIdentifier(t *testing.T) {
	ctx := &FunctionContext{Data: map[string]interface{}{}}
	_, err := Execute("expr", ctx, []interface{}{"totally_unknown_identifier(1, 2, 3)"})
	assert.Error(t, err)
}

func TestBridgeResolvesBuiltinAndExprLangFunctions(t *testing.T) {
	bridge := GetExprBridge()

	_, found, source := bridge.ResolveFunction("abs")
	assert.True(t, found)
	assert.NotEmpty(t, source)

	assert.True(t, bridge.IsExprLangFunction("trim"))
	assert.False(t, bridge.IsExprLangFunction("definitely_not_a_function"))
}

func TestEvaluateWithBridgeLikeOperator(t *testing.T) {
	result, err := EvaluateWithBridge(`name LIKE 'foo%'`, map[string]interface{}{"name": "foobar"})
	require.NoError(t, err)
	assert.Equal(t, true, result)
}
