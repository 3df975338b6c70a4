package main

import (
	"database/sql"
	"epicq/lib/clients"
	"epicq/lib/data"
	"epicq/lib/util"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var validFormats = []string{"text", "json"}

// rootOptions holds global flags and the resources shared by every command. Tests set
// db, logger and now directly; otherwise they are built from the loaded config.
type rootOptions struct {
	Format  string
	EnvFile string

	cfg    *config
	db     *sql.DB
	logger *logrus.Logger
	now    func() time.Time
}

// newRootCommand creates the epicq-admin command tree
func newRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "epicq-admin",
		Short:         "Operator tooling for the EPIC-Q backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return opts.init()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file with database settings")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newHospitalCommand(opts))
	cmd.AddCommand(newCoordinatorCommand(opts))
	cmd.AddCommand(newPeriodsCommand(opts))

	return cmd
}

func (o *rootOptions) init() error {
	if o.cfg == nil {
		cfg, err := loadConfig(o.EnvFile)
		if err != nil {
			return err
		}
		o.cfg = cfg
	}
	if o.logger == nil {
		o.logger = util.NewLogger(o.cfg.LogLevel, o.cfg.IsLocal)
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.db == nil {
		db, err := clients.NewPostgresSQLClient(o.cfg.DBHost, o.cfg.DBPort, o.cfg.DBName, o.cfg.DBUser, o.cfg.DBPassword, o.cfg.SSLMode)
		if err != nil {
			return fmt.Errorf("error creating PostgreSQL client: %w", err)
		}
		o.db = db
	}
	return nil
}

func (o *rootOptions) close() {
	if o.db != nil {
		o.db.Close()
	}
}

func (o *rootOptions) cascade() *data.CascadeDao {
	return &data.CascadeDao{DB: o.db, Logger: o.logger, Now: o.now}
}

// followUps wires the archive and identity repositories when configured. Both stay nil
// interfaces otherwise.
func (o *rootOptions) followUps() (data.DeletionArchiveRepository, data.IdentityRepository) {
	var archive data.DeletionArchiveRepository
	var identity data.IdentityRepository
	if o.cfg.ArchiveBucket != "" {
		archive = &data.S3DeletionArchiveDao{S3: clients.NewS3Client(o.cfg.IsLocal, o.cfg.ArchiveBucket), Logger: o.logger}
	}
	if o.cfg.UserPoolID != "" {
		identity = &data.CognitoIdentityDao{Client: clients.NewCognitoClient(o.cfg.IsLocal), UserPoolID: o.cfg.UserPoolID, Logger: o.logger}
	}
	return archive, identity
}
