package cli

import "fmt"

type MedListCmd struct {
	All bool `help:"Include deactivated medications."`
}

func (c *MedListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	list, err := ctx.Store.GetAllMedications()
	if c.All {
		list, err = ctx.Store.GetAllMedicationsIncludingInactive()
	}
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("No medications found")
		return nil
	}

	fmt.Println("Medications:")
	for _, med := range list {
		fmt.Println(formatMedication(med))
	}
	return nil
}
