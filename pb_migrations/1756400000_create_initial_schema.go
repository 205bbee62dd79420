package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		sessions := core.NewBaseCollection("sessions")
		sessions.ListRule = nil
		sessions.ViewRule = nil
		sessions.CreateRule = nil
		sessions.UpdateRule = nil
		sessions.DeleteRule = nil

		// join_code field
		sessions.Fields.Add(&core.TextField{
			Name:     "join_code",
			Required: true,
			Max:      12,
		})

		// admin_id field
		sessions.Fields.Add(&core.TextField{
			Name:     "admin_id",
			Required: true,
			Max:      64,
		})

		// location field
		sessions.Fields.Add(&core.JSONField{
			Name:     "location",
			Required: true,
			MaxSize:  2048,
		})

		// favorited_restaurants field
		sessions.Fields.Add(&core.JSONField{
			Name:     "favorited_restaurants",
			Required: false,
			MaxSize:  10240,
		})

		// status field
		sessions.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			MaxSelect: 1,
			Values:    []string{"active", "completed", "expired"},
		})

		// restaurant_pool field
		sessions.Fields.Add(&core.JSONField{
			Name:     "restaurant_pool",
			Required: false,
			MaxSize:  1048576,
		})

		// created_at field
		sessions.Fields.Add(&core.DateField{
			Name:     "created_at",
			Required: true,
		})

		// expires_at field
		sessions.Fields.Add(&core.DateField{
			Name:     "expires_at",
			Required: true,
		})

		// The unique index is what makes join code allocation atomic: a
		// duplicate save fails instead of silently sharing a code.
		sessions.Indexes = []string{
			"CREATE UNIQUE INDEX idx_sessions_join_code ON sessions(join_code)",
			"CREATE INDEX idx_sessions_expires ON sessions(expires_at)",
		}

		if err := app.Save(sessions); err != nil {
			return err
		}

		responses := core.NewBaseCollection("responses")
		responses.ListRule = nil
		responses.ViewRule = nil
		responses.CreateRule = nil
		responses.UpdateRule = nil
		responses.DeleteRule = nil

		// session_id relation
		responses.Fields.Add(&core.RelationField{
			Name:          "session_id",
			Required:      true,
			MaxSelect:     1,
			CollectionId:  sessions.Id,
			CascadeDelete: true,
		})

		// user_id field
		responses.Fields.Add(&core.TextField{
			Name:     "user_id",
			Required: true,
			Max:      64,
		})

		// user_name field
		responses.Fields.Add(&core.TextField{
			Name:     "user_name",
			Required: false,
			Max:      50,
		})

		// eliminated_cuisines field
		responses.Fields.Add(&core.JSONField{
			Name:     "eliminated_cuisines",
			Required: false,
			MaxSize:  10240,
		})

		// eliminated_venues field
		responses.Fields.Add(&core.JSONField{
			Name:     "eliminated_venues",
			Required: false,
			MaxSize:  10240,
		})

		// eliminated_restaurants field
		responses.Fields.Add(&core.JSONField{
			Name:     "eliminated_restaurants",
			Required: false,
			MaxSize:  65536,
		})

		// current_stage field
		responses.Fields.Add(&core.SelectField{
			Name:      "current_stage",
			Required:  true,
			MaxSelect: 1,
			Values:    []string{"cuisines", "venues", "restaurants", "complete"},
		})

		// created_at field
		responses.Fields.Add(&core.DateField{
			Name:     "created_at",
			Required: true,
		})

		// updated_at field
		responses.Fields.Add(&core.DateField{
			Name:     "updated_at",
			Required: true,
		})

		responses.Indexes = []string{
			"CREATE INDEX idx_responses_session ON responses(session_id)",
			"CREATE UNIQUE INDEX idx_responses_unique ON responses(session_id, user_id)",
		}

		return app.Save(responses)
	}, func(app core.App) error {
		// Down migration - delete in reverse order
		responses, err := app.FindCollectionByNameOrId("responses")
		if err == nil && responses != nil {
			if err := app.Delete(responses); err != nil {
				return err
			}
		}

		sessions, err := app.FindCollectionByNameOrId("sessions")
		if err == nil && sessions != nil {
			return app.Delete(sessions)
		}

		return nil
	})
}
