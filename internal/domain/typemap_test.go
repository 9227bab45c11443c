package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phdsystems/stratify/internal/domain"
)

var table = []domain.TypeMapping{
	{CoreType: "com.acme.core.DefaultAgentRegistry", APIType: "com.acme.api.AgentRegistry"},
	{CoreType: "com.acme.core.OrderServiceImpl", APIType: "com.acme.api.OrderService"},
}

func TestResolveMapping_Qualified(t *testing.T) {
	m, ok := domain.ResolveMapping("com.acme.core.DefaultAgentRegistry", table)

	require.True(t, ok)
	assert.Equal(t, "com.acme.api.AgentRegistry", m.APIType)
}

func TestResolveMapping_SimpleName(t *testing.T) {
	m, ok := domain.ResolveMapping("OrderServiceImpl", table)

	require.True(t, ok)
	assert.Equal(t, "com.acme.api.OrderService", m.APIType)
}

func TestResolveMapping_Miss(t *testing.T) {
	_, ok := domain.ResolveMapping("UnknownType", table)
	assert.False(t, ok)
}

func TestInferMapping_DefaultPrefix(t *testing.T) {
	m, ok := domain.InferMapping("com.acme.core.DefaultAgentRegistry")

	require.True(t, ok)
	assert.Equal(t, "com.acme.api.AgentRegistry", m.APIType)
	assert.True(t, m.Inferred)
}

func TestInferMapping_ImplSuffix(t *testing.T) {
	m, ok := domain.InferMapping("com.acme.core.PaymentGatewayImpl")

	require.True(t, ok)
	assert.Equal(t, "com.acme.api.PaymentGateway", m.APIType)
	assert.True(t, m.Inferred)
}

func TestInferMapping_AbstractPrefix(t *testing.T) {
	m, ok := domain.InferMapping("AbstractStructureFixer")

	require.True(t, ok)
	assert.Equal(t, "StructureFixer", m.APIType)
}

func TestInferMapping_NoAffix(t *testing.T) {
	_, ok := domain.InferMapping("com.acme.core.OrderService")
	assert.False(t, ok)
}

func TestInferMapping_AffixOnly(t *testing.T) {
	// Stripping "Default" would leave an empty name.
	_, ok := domain.InferMapping("com.acme.core.Default")
	assert.False(t, ok)
}

func TestInferMapping_NoCoreSegment(t *testing.T) {
	m, ok := domain.InferMapping("com.acme.internal.DefaultWidget")

	require.True(t, ok)
	assert.Equal(t, "com.acme.internal.Widget", m.APIType)
}
