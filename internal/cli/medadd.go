package cli

import (
	"fmt"

	"github.com/hsnsag/pillbox/internal/models"
)

type MedAddCmd struct {
	Name  string `arg:"" help:"Medication name."`
	Dose  string `short:"d" help:"Dose description, e.g. '200mg'." required:""`
	Times string `short:"t" help:"Comma-separated times of day (HH:MM)." required:""`
	Days  string `short:"w" help:"Days: a 7-char Monday-first 1/0 mask or day names like 'Mon,Wed,Fri'." default:"1111111"`
}

func (c *MedAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	times, err := parseTimesFlag(c.Times)
	if err != nil {
		return err
	}
	mask, err := models.CoerceDaysMask(c.Days)
	if err != nil {
		return err
	}

	id, err := ctx.Store.NextMedicationID()
	if err != nil {
		return err
	}

	med := models.Medication{
		ID:     id,
		Name:   c.Name,
		Dose:   c.Dose,
		Times:  times,
		Days:   mask,
		Active: true,
	}
	if err := med.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.AddMedication(med); err != nil {
		return err
	}

	fmt.Printf("Added medication: %s (ID: %d)\n", med.Name, med.ID)
	return nil
}
