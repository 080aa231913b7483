package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
)

// DashboardPort is the dashboard API for other modules.
type DashboardPort interface {
	GetDashboard(ctx context.Context) (*Snapshot, error)
}

type dashboardAdapter struct {
	container mono.ServiceContainer
}

// NewDashboardAdapter creates a DashboardPort for the dashboard module's container.
func NewDashboardAdapter(container mono.ServiceContainer) DashboardPort {
	if container == nil {
		panic("dashboard adapter requires non-nil ServiceContainer")
	}
	return &dashboardAdapter{container: container}
}

func (a *dashboardAdapter) GetDashboard(ctx context.Context) (*Snapshot, error) {
	req := GetDashboardRequest{}
	var resp Snapshot
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-dashboard",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-dashboard service call failed: %w", errs.FromRemote(err))
	}
	return &resp, nil
}
