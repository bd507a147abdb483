package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMathBuiltins(t *testing.T) {
	ctx := &FunctionContext{}

	abs, err := Execute("abs", ctx, []interface{}{-3.5})
	require.NoError(t, err)
	assert.Equal(t, 3.5, abs)

	sqrt, err := Execute("sqrt", ctx, []interface{}{9.0})
	require.NoError(t, err)
	assert.Equal(t, 3.0, sqrt)

	pow, err := Execute("power", ctx, []interface{}{2.0, 10.0})
	require.NoError(t, err)
	assert.Equal(t, 1024.0, pow)
}

func TestStringBuiltins(t *testing.T) {
	ctx := &FunctionContext{}

	upper, err := Execute("upper", ctx, []interface{}{"hello"})
	require.NoError(t, err)
	assert.Equal(t, "HELLO", upper)

	length, err := Execute("length", ctx, []interface{}{"hello"})
	require.NoError(t, err)
	assert.EqualValues(t, 5, length)

	concat, err := Execute("concat", ctx, []interface{}{"foo", "bar"})
	require.NoError(t, err)
	assert.Equal(t, "foobar", concat)
}

func TestConversionBuiltins(t *testing.T) {
	ctx := &FunctionContext{}

	hex, err := Execute("dec2hex", ctx, []interface{}{255.0})
	require.NoError(t, err)
	assert.Equal(t, "ff", hex)
}

func TestAggregationBuiltinsIncremental(t *testing.T) {
	sumFn, ok := Get("sum")
	require.True(t, ok)
	aggFn, ok := sumFn.(AggregatorFunction)
	require.True(t, ok)

	acc := aggFn.New()
	acc.Add(1.0)
	acc.Add(2.0)
	acc.Add(3.0)
	assert.Equal(t, 6.0, acc.Result())

	clone := acc.Clone()
	clone.Add(4.0)
	assert.Equal(t, 10.0, clone.Result())
	assert.Equal(t, 6.0, acc.Result(), "cloning must not mutate the original accumulator")
}

func TestAnalyticalBuiltinLag(t *testing.T) {
	lagFn := NewLagFunction()
	ctx := &FunctionContext{Data: map[string]interface{}{}}

	first, err := lagFn.Execute(ctx, []interface{}{10})
	require.NoError(t, err)
	assert.Nil(t, first)

	second, err := lagFn.Execute(ctx, []interface{}{20})
	require.NoError(t, err)
	assert.Equal(t, 10, second)
}

func TestCreateAggregatorAndAnalytical(t *testing.T) {
	sum, err := CreateAggregator("sum")
	require.NoError(t, err)
	sum.Add(1.0)
	sum.Add(2.0)
	assert.Equal(t, 3.0, sum.Result())

	lag, err := CreateAnalytical("lag")
	require.NoError(t, err)
	assert.NotNil(t, lag)
}
