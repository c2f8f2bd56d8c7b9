package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/trezcool/sajili/core"
	"github.com/trezcool/sajili/core/directory"
	"github.com/trezcool/sajili/core/student"
	"github.com/trezcool/sajili/storage/database"
	sqlxrepos "github.com/trezcool/sajili/storage/database/sqlx"
	"github.com/trezcool/sajili/storage/recordstore"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up store: Postgres when configured, the flat-file record store otherwise
	var repo student.Repository
	var migrate func(command string, args ...string) error
	if conf.Database.User != "" {
		db, err := database.Open(conf)
		errAndDie(err)
		defer func() { _ = db.Close() }()
		errAndDie(database.Ping(db))
		repo = sqlxrepos.NewStudentRepository(db)
		migrate = func(command string, args ...string) error {
			return migrateRunFunc(command, db.DB, args...)
		}
	} else {
		store, err := recordstore.Open(conf.Store.DataFile)
		errAndDie(err)
		repo = store
	}

	// start CLI
	cli := commandLine{
		conf:    conf,
		repo:    repo,
		dirSvc:  directory.NewService(repo, conf),
		migrate: migrate,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

var migrateRunFunc = func(command string, db *sql.DB, args ...string) error { // mockable
	return database.RunMigrationCommand(command, db, args...)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
