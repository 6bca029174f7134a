package cli

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/btevta/internal/ports/primary"
)

// advanceFlags builds the advance command and parses args into its flags.
func advanceFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := candidateAdvanceCmd()
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestBindStageFlags_OnlyUsedGroups(t *testing.T) {
	cmd := advanceFlags(t, "--consent", "--outcome", "passed", "--target-country", "Qatar")

	var req primary.AdvanceRequest
	require.NoError(t, bindStageFlags(cmd, &req))

	require.NotNil(t, req.Screening)
	require.NotNil(t, req.Screening.Consent)
	assert.True(t, *req.Screening.Consent)
	assert.Equal(t, "passed", req.Screening.Outcome)
	assert.Equal(t, "Qatar", req.Screening.TargetCountry)

	assert.Nil(t, req.Training)
	assert.Nil(t, req.Interview)
	assert.Nil(t, req.Visa)
	assert.Nil(t, req.Departure)
	assert.Nil(t, req.Employment)
	assert.Nil(t, req.Story)
}

func TestBindStageFlags_Training(t *testing.T) {
	cmd := advanceFlags(t, "--interim", "64", "--final", "71.5", "--assessor", "M. Akram")

	var req primary.AdvanceRequest
	require.NoError(t, bindStageFlags(cmd, &req))

	require.NotNil(t, req.Training)
	assert.Equal(t, 64.0, *req.Training.InterimScore)
	assert.Equal(t, 71.5, *req.Training.FinalScore)
	assert.Equal(t, 100.0, req.Training.MaxScore)
	assert.Equal(t, "M. Akram", req.Training.Assessor)
}

func TestBindStageFlags_ConsentUnsetStaysNil(t *testing.T) {
	cmd := advanceFlags(t, "--reviewer", "desk-3")

	var req primary.AdvanceRequest
	require.NoError(t, bindStageFlags(cmd, &req))

	require.NotNil(t, req.Screening)
	assert.Nil(t, req.Screening.Consent)
}

func TestBindStageFlags_DepartureAndVisa(t *testing.T) {
	cmd := advanceFlags(t,
		"--departure-date", "2026-04-01", "--flight", "PK-741",
		"--medical-status", "fit", "--medical-date", "2026-02-20",
	)

	var req primary.AdvanceRequest
	require.NoError(t, bindStageFlags(cmd, &req))

	require.NotNil(t, req.Departure)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), req.Departure.Date)
	assert.Equal(t, "PK-741", req.Departure.FlightNumber)

	require.NotNil(t, req.Visa)
	assert.Equal(t, "fit", req.Visa.MedicalStatus)
	require.NotNil(t, req.Visa.MedicalDate)
	assert.Equal(t, 20, req.Visa.MedicalDate.Day())
	assert.Nil(t, req.Visa.TradeTestDate)
}

func TestBindStageFlags_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "flight without date",
			args:    []string{"--flight", "PK-741"},
			wantErr: "--departure-date is required",
		},
		{
			name:    "malformed date",
			args:    []string{"--departure-date", "01/04/2026"},
			wantErr: "invalid --departure-date",
		},
		{
			name:    "short OEP id",
			args:    []string{"--oep", "7"},
			wantErr: "Use full ID format: OEP-0007",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := advanceFlags(t, tt.args...)
			var req primary.AdvanceRequest
			err := bindStageFlags(cmd, &req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateEntityID(t *testing.T) {
	tests := []struct {
		id, entity string
		wantErr    string
	}{
		{"BTEVTA-000001", "candidate", ""},
		{"", "candidate", ""},
		{"42", "candidate", "Use full ID format: BTEVTA-000042"},
		{"btevta-000001", "candidate", "IDs are case-sensitive"},
		{"CAND-1", "candidate", "Expected format: BTEVTA-000001"},
		{"BTEVTA-12a", "candidate", "Expected format: BTEVTA-000001"},
		{"anything", "campus", ""},
	}

	for _, tt := range tests {
		t.Run(tt.entity+"/"+tt.id, func(t *testing.T) {
			err := validateEntityID(tt.id, tt.entity)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDetectAndStoreActor(t *testing.T) {
	t.Cleanup(func() { globalActorID = "" })

	DetectAndStoreActor("officer-7")
	assert.Equal(t, "officer-7", GetActorID())

	t.Setenv("BTEVTA_ACTOR", "desk-2")
	DetectAndStoreActor("")
	assert.Equal(t, "desk-2", GetActorID())
}
