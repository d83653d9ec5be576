package usecase

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"backoffice-agent/internal/infrastructure/apierror"
)

func TestDashboardOverview(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dashboard/stats":
			_, _ = w.Write([]byte(`{"success":true,"data":{"hospitals":3,"doctors":7}}`))
		case "/dashboard/activity":
			if r.URL.Query().Get("limit") != "10" {
				t.Errorf("limit = %q", r.URL.Query().Get("limit"))
			}
			_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"a1","type":"create","description":"Added doctor"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	d := NewDashboardUsecase(b.client, zap.NewNop())
	overview, err := d.Overview(context.Background(), 0)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Stats.Hospitals != 3 || overview.Stats.Doctors != 7 {
		t.Fatalf("stats = %+v", overview.Stats)
	}
	if len(overview.Activity) != 1 || overview.Activity[0].ID != "a1" {
		t.Fatalf("activity = %+v", overview.Activity)
	}
}

func TestDashboardOverviewFailsWhenEitherPartFails(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dashboard/activity" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	})

	d := NewDashboardUsecase(b.client, zap.NewNop())
	_, err := d.Overview(context.Background(), 5)
	apiErr, ok := apierror.As(err)
	if !ok || apiErr.Status() != http.StatusServiceUnavailable {
		t.Fatalf("err = %v", err)
	}
}
