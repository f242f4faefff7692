package indexer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arkdale/photon/models"
)

func tp(s string) *time.Time {
	t, err := time.ParseInLocation(exifTimeLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestChooseTakenAt(t *testing.T) {
	original := tp("2020:06:01 12:00:00")
	edited := tp("2021:01:15 09:30:00")
	digitized := tp("2020:12:24 18:00:00")

	tests := []struct {
		name      string
		original  *time.Time
		datetime  *time.Time
		digitized *time.Time
		want      *time.Time
		ok        bool
	}{
		{"original wins", original, edited, digitized, original, true},
		{"earlier of edit and digitized", nil, edited, digitized, digitized, true},
		{"only edit time", nil, edited, nil, edited, true},
		{"only digitized", nil, nil, digitized, digitized, true},
		{"nothing", nil, nil, nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := chooseTakenAt(tt.original, tt.datetime, tt.digitized)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, *tt.want, got)
			}
		})
	}
}

func TestScanJobName(t *testing.T) {
	job := &ScanJob{Root: &models.RootFolder{Slug: "family-photos"}}
	assert.Equal(t, "scan-family-photos", job.Name())
}

func TestScanJobExecuteWithoutFunc(t *testing.T) {
	job := &ScanJob{Root: &models.RootFolder{Slug: "family-photos"}}
	err := job.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no execute function provided")
}

func TestScanJobExecute(t *testing.T) {
	executed := false
	job := &ScanJob{
		Root: &models.RootFolder{Slug: "family-photos"},
		ExecuteFunc: func(root *models.RootFolder) error {
			executed = true
			if root.Slug != "family-photos" {
				return fmt.Errorf("unexpected root: %s", root.Slug)
			}
			return nil
		},
	}
	assert.NoError(t, job.Execute())
	assert.True(t, executed)
}
