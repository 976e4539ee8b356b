package main

import (
	"context"
	"flag"
	"log"
	"math/big"

	"github.com/citizenwallet/governance/internal/config"
	"github.com/citizenwallet/governance/internal/services/db"
)

func main() {
	log.Default().Println("sqlite to postgres archive migration...")

	chainId := flag.Int("chain", 1337, "chain id")

	env := flag.String("env", ".db.env", "path to .db.env file with the postgres settings")

	dbpath := flag.String("dbpath", "data", "folder of the sqlite archive")

	flag.Parse()

	chid := big.NewInt(int64(*chainId))

	ctx := context.Background()

	conf, err := config.NewDBConfig(ctx, *env)
	if err != nil {
		log.Fatal(err)
	}

	if conf.Driver != config.DriverPostgres {
		log.Fatal("DB_DRIVER must be postgres in ", *env)
	}

	pqdb, err := db.NewDB(chid, *conf)
	if err != nil {
		log.Fatal(err)
	}
	defer pqdb.Close()

	sqdb, err := db.NewSQLiteDB(chid, *dbpath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqdb.Close()

	reports, proposals, err := sqdb.Migrate(ctx, pqdb)
	if err != nil {
		log.Fatal(err)
	}

	log.Default().Printf("migration completed: %d reports, %d proposals\n", reports, proposals)
}
