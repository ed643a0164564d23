package cli

import "fmt"

type MedDeleteCmd struct {
	ID int `arg:"" help:"Medication ID."`
}

func (c *MedDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := ctx.Store.DeactivateMedication(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deactivated medication %d. Dose history is kept; restore with 'pillbox med restore %d'.\n", c.ID, c.ID)
	return nil
}

type MedRestoreCmd struct {
	ID int `arg:"" help:"Medication ID."`
}

func (c *MedRestoreCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := ctx.Store.RestoreMedication(c.ID); err != nil {
		return err
	}
	fmt.Printf("Restored medication %d.\n", c.ID)
	return nil
}
