package assist

import (
	"testing"

	"disaster-response/internal/common"
)

func TestEstimateArrivalMin(t *testing.T) {
	cases := []struct {
		distanceKM float64
		want       int
	}{
		{0, 5},     // already on the spot
		{-1, 5},    // bad input treated as on the spot
		{40, 60},   // one hour at civilian speed
		{20, 30},   // half an hour
		{0.5, 0},   // truncates below a minute
		{10.5, 15}, // truncates fractional minutes
	}
	for _, tc := range cases {
		if got := estimateArrivalMin(tc.distanceKM); got != tc.want {
			t.Errorf("estimateArrivalMin(%g) = %d, want %d", tc.distanceKM, got, tc.want)
		}
	}
}

func TestNewOffer_StampsDistanceAndETA(t *testing.T) {
	sosLocation := common.NewLocation(28.7041, 77.1025)
	offer := newOffer(OfferRequest{
		SOSReportID:    "sos-1",
		HelperName:     "Ravi",
		HelperPhone:    "+919876543210",
		Latitude:       28.7041,
		Longitude:      77.1025,
		AssistanceType: "first_aid",
	}, sosLocation)

	if offer.AvailabilityStatus != AvailabilityAvailable {
		t.Fatalf("expected available, got %s", offer.AvailabilityStatus)
	}
	if offer.DistanceKM != 0 {
		t.Fatalf("expected zero distance, got %f", offer.DistanceKM)
	}
	if offer.EstimatedArrivalMin != 5 {
		t.Fatalf("expected 5 minute floor at zero distance, got %d", offer.EstimatedArrivalMin)
	}
	if offer.ID == "" {
		t.Fatal("expected generated id")
	}
}
