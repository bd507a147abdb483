package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookupIsCaseInsensitive(t *testing.T) {
	for _, name := range []string{"abs", "ABS", "Abs"} {
		fn, ok := Get(name)
		require.True(t, ok, name)
		assert.Equal(t, "abs", fn.GetName())
	}
}

func TestRegistryGetByType(t *testing.T) {
	mathFns := GetByType(TypeMath)
	assert.NotEmpty(t, mathFns)
	for _, fn := range mathFns {
		assert.Equal(t, TypeMath, fn.GetType())
	}
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	r := NewFunctionRegistry()
	require.NoError(t, r.Register(NewAbsFunction()))
	err := r.Register(NewAbsFunction())
	assert.Error(t, err)
}

func TestExecuteUnknownFunction(t *testing.T) {
	_, err := Execute("does_not_exist", &FunctionContext{}, nil)
	assert.Error(t, err)
}

func TestCreateAggregatorRejectsScalarFunction(t *testing.T) {
	_, err := CreateAggregator("upper")
	assert.Error(t, err)
}

func TestCreateAnalyticalRejectsUnknown(t *testing.T) {
	_, err := CreateAnalytical("does_not_exist")
	assert.Error(t, err)
}
