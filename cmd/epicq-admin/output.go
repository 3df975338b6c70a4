package main

import (
	"encoding/json"
	"epicq/lib/models"
	"fmt"
	"io"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writePlan(w io.Writer, format string, plan *models.DeletionPlan) error {
	if format == "json" {
		return writeJSON(w, plan)
	}

	if !plan.CanDelete {
		fmt.Fprintf(w, "Cannot delete: %s\n", plan.BlockingReason)
		return nil
	}
	fmt.Fprintln(w, "Can delete")
	writeActions(w, plan.Actions)
	for _, warning := range plan.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	return nil
}

func writeDeletion(w io.Writer, format string, response *models.DeletionResponse) error {
	if format == "json" {
		return writeJSON(w, response)
	}

	fmt.Fprintf(w, "Deleted %s %d\n", response.Result.Subject, response.Result.SubjectID)
	writeActions(w, response.Result.Actions)
	if response.ArchiveKey != "" {
		fmt.Fprintf(w, "Archived to %s\n", response.ArchiveKey)
	}
	for _, warning := range response.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	return nil
}

func writeActions(w io.Writer, actions []models.DeletionAction) {
	for _, action := range actions {
		fmt.Fprintf(w, "  - %s: %s\n", action.Type, action.Description)
	}
}
