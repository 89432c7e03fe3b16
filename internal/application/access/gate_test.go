package access

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/rbac"
	"github.com/jhoicas/backoffice-api/pkg/logger"
	"github.com/jhoicas/backoffice-api/pkg/metrics"
)

type failingSource struct{}

func (failingSource) EffectivePermissions(context.Context, int64, string) (rbac.Set, error) {
	return nil, errors.New("conexión cerrada")
}

func TestGate_Authorize(t *testing.T) {
	ctx := context.Background()
	s := newService()
	_, err := s.ReplacePermissions(ctx, ownerA, entity.RoleCashier, []string{"POS_ACCESS"})
	require.NoError(t, err)

	m := metrics.New("test", prometheus.NewRegistry())
	g := NewGate(s, logger.Nop(), m)

	tests := []struct {
		name       string
		role       string
		company    int64
		required   rbac.Permission
		wantAllow  bool
		wantReason DenyReason
	}{
		{name: "admin todo", role: entity.RoleAdmin, company: 1, required: rbac.ManageCompany, wantAllow: true},
		{name: "manager sin gestión de empleados", role: entity.RoleManager, company: 1, required: rbac.ManageEmployees, wantReason: InsufficientPermission},
		{name: "manager ve empleados", role: entity.RoleManager, company: 1, required: rbac.ViewEmployees, wantAllow: true},
		{name: "sin rol", role: "", company: 1, required: rbac.ViewDashboard, wantReason: NoRole},
		{name: "override de la empresa aplica", role: entity.RoleCashier, company: 1, required: rbac.ViewDashboard, wantReason: InsufficientPermission},
		{name: "otra empresa usa defaults", role: entity.RoleCashier, company: 2, required: rbac.ViewDashboard, wantAllow: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := g.Authorize(ctx, tt.role, tt.company, tt.required)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllow, d.Allowed)
			assert.Equal(t, tt.wantReason, d.Reason)
			assert.Equal(t, tt.required, d.Required)
			assert.Equal(t, tt.role, d.Role)
		})
	}

	assert.Equal(t, float64(1), counterValue(t, m.AccessDenied.WithLabelValues(string(rbac.ManageEmployees), string(InsufficientPermission))))
	assert.Equal(t, float64(1), counterValue(t, m.AccessDenied.WithLabelValues(string(rbac.ViewDashboard), string(NoRole))))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, c.Write(&out))
	return out.GetCounter().GetValue()
}

func TestGate_StoreFailureIsError(t *testing.T) {
	g := NewGate(failingSource{}, logger.Nop(), nil)
	_, err := g.Authorize(context.Background(), entity.RoleAdmin, 1, rbac.ViewDashboard)
	assert.Error(t, err)
}
