package assist

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jmoiron/sqlx"

	"disaster-response/internal/common"
	domainerrors "disaster-response/internal/errors"
	"disaster-response/internal/sos"
)

type fakeReports struct {
	sos.Service
	report *sos.SOSReport
	err    error
}

func (f *fakeReports) GetByID(_ context.Context, _ string) (*sos.SOSReport, error) {
	return f.report, f.err
}

type fakeRepo struct {
	offers []*Offer
}

func (f *fakeRepo) Insert(_ context.Context, _ sqlx.ExtContext, o *Offer) error {
	f.offers = append(f.offers, o)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, _ sqlx.ExtContext, id string) (*Offer, error) {
	for _, o := range f.offers {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrNoRows
}

func (f *fakeRepo) Update(_ context.Context, _ sqlx.ExtContext, _ *Offer) error {
	return nil
}

func (f *fakeRepo) ListBySOS(_ context.Context, _ sqlx.ExtContext, _ string, _ bool) ([]*Offer, error) {
	return f.offers, nil
}

type fakeBroadcaster struct {
	channels []string
}

func (f *fakeBroadcaster) Publish(channel string, _ any) {
	f.channels = append(f.channels, channel)
}

func (f *fakeBroadcaster) PublishLocation(_ common.Location, _ any) {}

func (f *fakeBroadcaster) PublishGlobal(_ any) {}

func testReport(crowdEnabled bool) *sos.SOSReport {
	return &sos.SOSReport{
		ID:                     "sos-1",
		Latitude:               28.7041,
		Longitude:              77.1025,
		EmergencyType:          sos.EmergencyMedical,
		Status:                 sos.StatusPending,
		CrowdAssistanceEnabled: crowdEnabled,
	}
}

func testOfferRequest() OfferRequest {
	return OfferRequest{
		SOSReportID:    "sos-1",
		HelperName:     "Ravi",
		HelperPhone:    "+919876543210",
		Latitude:       28.71,
		Longitude:      77.10,
		AssistanceType: "first_aid",
	}
}

func testAssistService(reports *fakeReports, repo *fakeRepo, broadcaster *fakeBroadcaster) Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAssistService(repo, reports, nil, broadcaster, logger)
}

func TestOffer_AssistanceDisabled(t *testing.T) {
	repo := &fakeRepo{}
	svc := testAssistService(&fakeReports{report: testReport(false)}, repo, &fakeBroadcaster{})

	_, err := svc.Offer(context.Background(), testOfferRequest())
	if err == nil {
		t.Fatal("expected error for disabled crowd assistance")
	}
	de, ok := err.(*domainerrors.DomainError)
	if !ok {
		t.Fatalf("expected DomainError, got %T", err)
	}
	if de.Code != domainerrors.ErrAssistanceDisabled {
		t.Fatalf("expected ASSISTANCE_DISABLED, got %s", de.Code)
	}
	if len(repo.offers) != 0 {
		t.Fatalf("no offer should be recorded, got %d", len(repo.offers))
	}
}

func TestOffer_UnknownSOS(t *testing.T) {
	repo := &fakeRepo{}
	svc := testAssistService(&fakeReports{err: domainerrors.SOSNotFound("sos-1")}, repo, &fakeBroadcaster{})

	_, err := svc.Offer(context.Background(), testOfferRequest())
	if err == nil {
		t.Fatal("expected error for unknown sos report")
	}
	de, ok := err.(*domainerrors.DomainError)
	if !ok {
		t.Fatalf("expected DomainError, got %T", err)
	}
	if de.Code != domainerrors.ErrNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", de.Code)
	}
	if len(repo.offers) != 0 {
		t.Fatalf("no offer should be recorded, got %d", len(repo.offers))
	}
}

func TestOffer_RecordsAndNotifies(t *testing.T) {
	repo := &fakeRepo{}
	broadcaster := &fakeBroadcaster{}
	svc := testAssistService(&fakeReports{report: testReport(true)}, repo, broadcaster)

	offer, err := svc.Offer(context.Background(), testOfferRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.offers) != 1 {
		t.Fatalf("expected 1 recorded offer, got %d", len(repo.offers))
	}
	if offer.DistanceKM <= 0 {
		t.Fatalf("expected positive distance, got %f", offer.DistanceKM)
	}
	if offer.AvailabilityStatus != AvailabilityAvailable {
		t.Fatalf("expected available, got %s", offer.AvailabilityStatus)
	}
	if len(broadcaster.channels) != 1 || broadcaster.channels[0] != "sos:sos-1" {
		t.Fatalf("expected publish to sos:sos-1, got %v", broadcaster.channels)
	}
}

func TestOffer_InvalidCoordinates(t *testing.T) {
	svc := testAssistService(&fakeReports{report: testReport(true)}, &fakeRepo{}, &fakeBroadcaster{})

	req := testOfferRequest()
	req.Latitude = 95
	_, err := svc.Offer(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for out-of-range latitude")
	}
}
