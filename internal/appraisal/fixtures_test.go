package appraisal_test

import (
	"time"

	"github.com/noah-isme/hris-go-api/internal/models"
)

func ptr[T any](v T) *T {
	return &v
}

func sampleObjectives() []models.Objective {
	return []models.Objective{
		{ID: "obj-1", Description: "Delivery", Marks: 40},
		{ID: "obj-2", Description: "Quality", Marks: 35},
		{ID: "obj-3", Description: "Teamwork", Marks: 25},
	}
}

func sampleRecord() models.Appraisal {
	return models.Appraisal{
		ID:           7,
		CompanyID:    1,
		Title:        "H1 review",
		EmployeeID:   30,
		TeamLeadID:   20,
		DepartmentID: 5,
		Period:       "2026-H1",
		DueDate:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Objectives:   sampleObjectives(),
		Status:       models.AppraisalStatusPending,
		ReviewLevel:  models.ReviewLevelTeamLead,
		Version:      1,
	}
}
