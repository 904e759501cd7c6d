package main

import (
	"fmt"
	"os"
	"printdesk/account"
	"printdesk/client/s3"
	"printdesk/common"
	"printdesk/infra/tracing"
	"printdesk/jobs"
	"printdesk/migration"
	"printdesk/persistence"
	"printdesk/report"
	"printdesk/servehttp"
	"printdesk/session"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const DefaultServerAddr = ":8080"

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database, then serve HTTP requests and run scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			closer := tracing.InitGlobalTracer(common.ServiceName)
			defer closer.Close()

			ds, err := startDataSource()
			if err != nil {
				return err
			}
			defer ds.Stop()
			// concurrent instances may race here
			if err := migration.Migrate(ds); err != nil {
				return fmt.Errorf("database migration failed: %w", err)
			}

			uploader, err := buildUploader()
			if err != nil {
				return err
			}
			scheduler, err := jobs.NewScheduler(jobs.NewRunner(), jobs.All(uploader))
			if err != nil {
				return err
			}
			scheduler.Start()
			defer func() {
				<-scheduler.Stop().Done()
			}()

			addr := os.Getenv("SERVER_ADDR")
			if addr == "" {
				addr = DefaultServerAddr
			}
			return servehttp.StartHTTPServer(servehttp.BuildEngine(), addr)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := startDataSource()
			if err != nil {
				return err
			}
			defer ds.Stop()
			return migration.Migrate(ds)
		},
	}
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var name, password, role string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := startDataSource()
			if err != nil {
				return err
			}
			defer ds.Stop()
			info, err := account.CreateUser(cmd.Context(),
				&account.UserCreation{Name: name, Password: password, Role: session.Role(role)})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s (%s) created with id %s\n", info.Name, info.Role, info.ID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "account name")
	create.Flags().StringVar(&password, "password", "", "account password")
	create.Flags().StringVar(&role, "role", string(session.RoleUser), "USER or ADMIN")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func newJobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Operate scheduled jobs",
	}
	run := &cobra.Command{
		Use:   "run <name>",
		Short: "Run a scheduled job once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uploader, err := buildUploader()
			if err != nil {
				return err
			}
			job, err := jobs.Find(jobs.All(uploader), args[0])
			if err != nil {
				return err
			}

			closer := tracing.InitGlobalTracer(common.ServiceName)
			defer closer.Close()
			ds, err := startDataSource()
			if err != nil {
				return err
			}
			defer ds.Stop()
			return jobs.NewRunner().Execute(cmd.Context(), job)
		},
	}
	cmd.AddCommand(run)
	return cmd
}

// startDataSource connects the database configured by DB_* variables and makes it the active one.
func startDataSource() (*persistence.DataSourceManager, error) {
	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("parse database config failed: %w", err)
	}
	// create database (no conflict)
	if dbConfig.DriverType == persistence.DriverMysql {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			return nil, fmt.Errorf("failed to prepare database: %w", err)
		}
	}
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	persistence.ActiveDataSourceManager = ds
	logrus.WithField("driver", dbConfig.DriverType).Info("database connected")
	return ds, nil
}

// buildUploader returns nil when object storage is not configured.
func buildUploader() (report.Uploader, error) {
	if !s3.Configured() {
		return nil, nil
	}
	bucket, err := s3.BuildBucketFromEnv()
	if err != nil {
		return nil, fmt.Errorf("object storage setup failed: %w", err)
	}
	return &s3.BucketUploader{Bucket: bucket}, nil
}
