package cli

import (
	"fmt"

	"github.com/hsnsag/pillbox/internal/models"
)

type MedEditCmd struct {
	ID    int    `arg:"" help:"Medication ID."`
	Name  string `help:"New name."`
	Dose  string `short:"d" help:"New dose description."`
	Times string `short:"t" help:"New comma-separated times of day (HH:MM)."`
	Days  string `short:"w" help:"New days mask or day names."`
}

func (c *MedEditCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	med, err := ctx.Store.GetMedication(c.ID)
	if err != nil {
		return err
	}

	if c.Name != "" {
		med.Name = c.Name
	}
	if c.Dose != "" {
		med.Dose = c.Dose
	}
	if c.Times != "" {
		times, err := parseTimesFlag(c.Times)
		if err != nil {
			return err
		}
		med.Times = times
	}
	if c.Days != "" {
		mask, err := models.CoerceDaysMask(c.Days)
		if err != nil {
			return err
		}
		med.Days = mask
	}

	if err := med.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.UpdateMedication(med); err != nil {
		return err
	}

	fmt.Printf("Updated medication: %s (ID: %d)\n", med.Name, med.ID)
	return nil
}
