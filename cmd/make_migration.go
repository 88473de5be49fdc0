package cmd

import (
	"fmt"
	"os"
	"path"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/wsmxd/mxdblog/pkg/envs"
	"github.com/wsmxd/mxdblog/pkg/infras/database"
	"github.com/wsmxd/mxdblog/pkg/logging"
)

var migrationTmpl = `
// Package migration stores all database migrations
package migration

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/wsmxd/mxdblog/pkg/infras/database"
	"github.com/wsmxd/mxdblog/pkg/model"
)

func init() {
	// Do Not Edit Migration ID!
	migrationID := "{{ .id }}"

	database.RegisterMigration(&gormigrate.Migration{
		ID: migrationID,
		Migrate: func(tx *gorm.DB) error {
			logApplying(migrationID)

			return tx.AutoMigrate({{ .models }})
		},
		Rollback: func(tx *gorm.DB) error {
			logRollingBack(migrationID)

			return tx.Migrator().DropTable({{ .models }})
		},
	})
}
`

// NewMakeMigrationCmd ...
func NewMakeMigrationCmd() *cobra.Command {
	var models []string

	makeMigrationCmd := cobra.Command{
		Use:   "make-migration",
		Short: "Generate a migration file that creates / drops the given models.",
		Run: func(cmd *cobra.Command, args []string) {
			logger := logging.GetSystemLogger()

			migrationID := database.GenMigrationID()

			// 文件
			fileName := fmt.Sprintf("%s.go", migrationID)
			filePath := path.Join(envs.BaseDir, "pkg/migration", fileName)
			file, err := os.Create(filePath)
			if err != nil {
				logger.Fatalf("failed to create migration file with path: %s, err: %s", filePath, err)
			}
			defer file.Close()

			// 模板
			tmpl, err := template.New("migration").Parse(strings.TrimLeft(migrationTmpl, "\n"))
			if err != nil {
				logger.Fatal("failed to initialize migration template")
			}
			refs := lo.Map(models, func(m string, _ int) string {
				return fmt.Sprintf("&model.%s{}", m)
			})
			data := map[string]string{"id": migrationID, "models": strings.Join(refs, ", ")}
			if err = tmpl.Execute(file, data); err != nil {
				logger.Fatal("failed to render migration file from template")
			}

			logger.Infof(
				"migration file %s generated, you must edit it and "+
					"check the migration logic and then run `migrate` to apply",
				fileName,
			)
		},
	}

	makeMigrationCmd.Flags().StringSliceVar(&models, "model", []string{"ReadCounter"}, "models (in pkg/model) managed by the migration")

	return &makeMigrationCmd
}

func init() {
	rootCmd.AddCommand(NewMakeMigrationCmd())
}
