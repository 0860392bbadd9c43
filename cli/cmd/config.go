package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Connection string `yaml:"connection"`
}

// Open connects according to the DSN scheme: sqlserver:// for password
// login, azuresql:// for AD login, postgres:// for PostgreSQL. SQL Server
// connections honor a SOCKS5 proxy in SQL_SOCKS.
func (dbcfg DatabaseConfig) Open(ctx context.Context, logger logrus.FieldLogger) (*sql.DB, error) {
	dsn := dbcfg.Connection
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return sql.Open("pgx", dsn)
	case strings.HasPrefix(dsn, "azuresql://"), strings.HasPrefix(dsn, "sqlserver://"):
		return openSocks5MssqlDB(dsn)
	}
	return nil, errors.New("expected URI-style dsn; sqlserver:// or azuresql:// for SQL Server, postgres:// for PostgreSQL")
}

func openSocks5MssqlDB(dsn string) (*sql.DB, error) {
	var err error
	var connector *mssql.Connector

	if strings.HasPrefix(dsn, "azuresql://") {
		connector, err = azuread.NewConnector(dsn)
	} else {
		connector, err = mssql.NewConnector(dsn)
	}
	if err != nil {
		return nil, err
	}

	socksProxyAddress := os.Getenv("SQL_SOCKS")
	if socksProxyAddress != "" {
		dialer, err := proxy.SOCKS5("tcp", socksProxyAddress, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("could not connect with SOCKS5 to %s because of: %w", socksProxyAddress, err)
		}
		connector.Dialer = dialer.(proxy.ContextDialer)
	}

	return sql.OpenDB(connector), nil
}

type Config struct {
	Databases map[string]DatabaseConfig `yaml:"databases"`
}

func LoadConfig() (Config, error) {
	var result Config

	configFilename := path.Join(directory, "sqlshape.yaml")
	if _, err := os.Stat(configFilename); os.IsNotExist(err) {
		return Config{}, errors.New("no sqlshape.yaml found in " + directory)
	}

	yamlFile, err := os.ReadFile(configFilename)
	if err != nil {
		return Config{}, err
	}
	err = yaml.Unmarshal(yamlFile, &result)
	if err != nil {
		return Config{}, err
	}
	return result, nil
}
