package migrations

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		sessions, err := app.FindCollectionByNameOrId("sessions")
		if err != nil {
			return fmt.Errorf("failed to find sessions collection: %w", err)
		}

		// batch_offset field: the group-visible elimination page cursor
		sessions.Fields.Add(&core.NumberField{
			Name:     "batch_offset",
			Required: false,
			OnlyInt:  true,
		})

		// winner field: the frozen final pick, null until locked in
		sessions.Fields.Add(&core.JSONField{
			Name:     "winner",
			Required: false,
			MaxSize:  4096,
		})

		if err := app.Save(sessions); err != nil {
			return fmt.Errorf("failed to update sessions collection: %w", err)
		}

		return nil
	}, func(app core.App) error {
		// Down migration - remove fields
		sessions, err := app.FindCollectionByNameOrId("sessions")
		if err == nil {
			for _, name := range []string{"batch_offset", "winner"} {
				for i, field := range sessions.Fields {
					if field.GetName() == name {
						sessions.Fields = append(sessions.Fields[:i], sessions.Fields[i+1:]...)
						break
					}
				}
			}
			_ = app.Save(sessions)
		}

		return nil
	})
}
