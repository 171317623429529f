package cloudinary_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hris-go-api/internal/models"
	"github.com/noah-isme/hris-go-api/pkg/cloudinary"
)

func TestPublicIDCollapsesSeparators(t *testing.T) {
	at := time.Unix(1780000000, 0)

	require.Equal(t, "q1-sales-report-1780000000", cloudinary.PublicID("Q1  Sales -- Report.pdf", at))
	require.Equal(t, "evidence-1780000000", cloudinary.PublicID("...pdf", at))
	require.Equal(t, "kpi-2024-1780000000", cloudinary.PublicID("__KPI 2024__.docx", at))
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := cloudinary.New(cloudinary.Config{CloudName: "demo"}, zerolog.New(io.Discard))
	require.Error(t, err)
}

func TestStoreRejectsEmptyBody(t *testing.T) {
	storage, err := cloudinary.New(cloudinary.Config{CloudName: "demo", APIKey: "key", APISecret: "secret"}, zerolog.Nop())
	require.NoError(t, err)

	_, err = storage.Store(context.Background(), models.EvidenceObject{CompanyID: 1, AppraisalID: 2, ObjectiveID: "obj-1"})
	require.Error(t, err)
}
