package database

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	pq "github.com/knetic/go-namedparameterquery"
	goOra "github.com/sijms/go-ora/v2"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/donnyhardyanto/dxdata/configuration"
	"github.com/donnyhardyanto/dxdata/database/database_type"
	"github.com/donnyhardyanto/dxdata/log"
	"github.com/donnyhardyanto/dxdata/utils"
)

type DXDatabaseEventFunc func(dm *DXDatabase, err error)

type DXDatabase struct {
	NameId                       string
	IsConfigured                 bool
	DatabaseType                 database_type.DXDatabaseType
	Address                      string
	UserName                     string
	UserPassword                 string
	DatabaseName                 string
	ConnectionOptions            string
	IsConnectAtStart             bool
	MustConnected                bool
	Connected                    bool
	Connection                   *sqlx.DB
	ConnectionString             string
	NonSensitiveConnectionString string
	OnCannotConnect              DXDatabaseEventFunc
	FieldCipher                  *DXFieldCipher
}

func (d *DXDatabase) GetNonSensitiveConnectionString() string {
	return fmt.Sprintf("%s://%s/%s", d.DatabaseType.String(), d.Address, d.DatabaseName)
}

func (d *DXDatabase) GetConnectionString() (s string, err error) {
	switch d.DatabaseType {
	case database_type.PostgreSQL:
		host, portAsString, err := net.SplitHostPort(d.Address)
		if err != nil {
			return "", err
		}
		s = fmt.Sprintf("user=%s password=%s host=%s port=%s dbname=%s %s", d.UserName, d.UserPassword, host, portAsString, d.DatabaseName, d.ConnectionOptions)
	case database_type.MySQL:
		s = fmt.Sprintf("%s:%s@tcp(%s)/%s", d.UserName, d.UserPassword, d.Address, d.DatabaseName)
		if d.ConnectionOptions != "" {
			s = s + "?" + d.ConnectionOptions
		}
	case database_type.SQLServer:
		host, portAsString, err := net.SplitHostPort(d.Address)
		if err != nil {
			return "", err
		}
		s = fmt.Sprintf("server=%s;port=%s;user id=%s;password=%s;database=%s;encrypt=disable", host, portAsString, d.UserName, d.UserPassword, d.DatabaseName)
	case database_type.Oracle:
		host, portAsString, err := net.SplitHostPort(d.Address)
		if err != nil {
			return "", err
		}
		portInt, err := strconv.Atoi(portAsString)
		if err != nil {
			return "", err
		}
		s = goOra.BuildUrl(host, portInt, d.DatabaseName, d.UserName, d.UserPassword, nil)
	default:
		err = log.Log.ErrorAndCreateErrorf("configuration is unusable, value of database_type field of database %s configuration is not supported (%s)", d.NameId, s)
	}
	return s, err
}

func (d *DXDatabase) ApplyFromConfiguration() (err error) {
	if d.IsConfigured {
		return nil
	}
	log.Log.Infof("Configuring to Database %s... start", d.NameId)
	configurationData, ok := configuration.Manager.Configurations["storage"]
	if !ok {
		err = log.Log.PanicAndCreateErrorf("DXDatabase/ApplyFromConfiguration/1", "Storage configuration not found")
		return err
	}
	m := *(configurationData.Data)
	databaseConfiguration, ok := m[d.NameId].(utils.JSON)
	if !ok {
		if d.MustConnected {
			err := log.Log.FatalAndCreateErrorf("Database %s configuration not found", d.NameId)
			return err
		} else {
			err := log.Log.WarnAndCreateErrorf("Manager is unusable, database %s configuration not found", d.NameId)
			return err
		}
	}
	b, ok := databaseConfiguration[`must_connected`].(bool)
	if ok {
		d.MustConnected = b
	}
	b, ok = databaseConfiguration[`is_connect_at_start`].(bool)
	if ok {
		d.IsConnectAtStart = b
	}
	s, ok := databaseConfiguration[`database_type`].(string)
	if !ok {
		if d.MustConnected {
			err := log.Log.FatalAndCreateErrorf("Mandatory database_type field value in database %s configuration is not supported (%v)", d.NameId, s)
			return err
		} else {
			err := log.Log.WarnAndCreateErrorf("configuration is unusable, mandatory database_type field value database %s configuration is not supported (%v)", d.NameId, s)
			return err
		}
	}
	d.DatabaseType = database_type.StringToDXDatabaseType(s)
	if d.DatabaseType == database_type.UnknownDatabaseType {
		if d.MustConnected {
			err := log.Log.FatalAndCreateErrorf("Mandatory value of database_type field of Database %s configuration is not supported (%s)", d.NameId, s)
			return err
		} else {
			err := log.Log.WarnAndCreateErrorf("configuration is unusable, value of database_type field of database %s configuration is not supported (%s)", d.NameId, s)
			return err
		}
	}
	d.Address, ok = databaseConfiguration[`address`].(string)
	if !ok {
		if d.MustConnected {
			err := log.Log.FatalAndCreateErrorf("Mandatory address field in Database %s configuration not exist", d.NameId)
			return err
		} else {
			err := log.Log.WarnAndCreateErrorf("configuration is unusable, mandatory address field in database %s configuration not exist", d.NameId)
			return err
		}
	}
	d.UserName, ok = databaseConfiguration[`user_name`].(string)
	if !ok {
		if d.MustConnected {
			err := log.Log.FatalAndCreateErrorf("Mandatory user_name field in Database %s configuration not exist", d.NameId)
			return err
		} else {
			err := log.Log.WarnAndCreateErrorf("configuration is unusable, mandatory user_name field in Database %s configuration not exist", d.NameId)
			return err
		}
	}
	d.UserPassword, ok = databaseConfiguration[`user_password`].(string)
	if !ok {
		if d.MustConnected {
			err := log.Log.FatalAndCreateErrorf("Mandatory user_password field in Database %s configuration not exist", d.NameId)
			return err
		} else {
			err := log.Log.WarnAndCreateErrorf("configuration is unusable, mandatory user_password field in Database %s configuration not exist", d.NameId)
			return err
		}
	}
	d.DatabaseName, ok = databaseConfiguration[`database_name`].(string)
	if !ok {
		if d.MustConnected {
			err := log.Log.FatalAndCreateErrorf("Mandatory database_name field in Database %s configuration not exist", d.NameId)
			return err
		} else {
			err := log.Log.WarnAndCreateErrorf("configuration is unusable, mandatory database_name field in Database %s configuration not exist", d.NameId)
			return err
		}
	}
	d.ConnectionOptions, _ = databaseConfiguration[`connection_options`].(string)
	charset, ok := databaseConfiguration[`charset`].(string)
	if ok && d.DatabaseType == database_type.MySQL {
		if d.ConnectionOptions != "" {
			d.ConnectionOptions = d.ConnectionOptions + "&"
		}
		d.ConnectionOptions = d.ConnectionOptions + "charset=" + charset
	}

	encryptionConfiguration, ok := databaseConfiguration[`encryption`].(utils.JSON)
	if ok {
		secretKey, _ := encryptionConfiguration[`secret_key`].(string)
		ivMaterial, _ := encryptionConfiguration[`iv`].(string)
		method, _ := encryptionConfiguration[`method`].(string)
		d.FieldCipher, err = NewFieldCipher(secretKey, ivMaterial, method)
		if err != nil {
			err = log.Log.FatalAndCreateErrorf("Encryption configuration of database %s is unusable (%v)", d.NameId, err.Error())
			return err
		}
	}

	d.NonSensitiveConnectionString = d.GetNonSensitiveConnectionString()
	d.ConnectionString, err = d.GetConnectionString()
	if err != nil {
		return err
	}
	d.IsConfigured = true
	log.Log.Infof("Configuring to Database %s... done", d.NameId)
	return nil
}

func (d *DXDatabase) Connect() (err error) {
	if !d.Connected {
		log.Log.Infof("Connecting to database %s/%s... start", d.NameId, d.NonSensitiveConnectionString)
		connection, err := sqlx.Open(d.DatabaseType.Driver(), d.ConnectionString)
		if err != nil {
			if d.MustConnected {
				log.Log.Fatalf("Invalid parameters to open database %s/%s (%s)", d.NameId, d.NonSensitiveConnectionString, err.Error())
				return nil
			} else {
				log.Log.Errorf("Invalid parameters to open database %s/%s (%s)", d.NameId, d.NonSensitiveConnectionString, err.Error())
				return err
			}
		}
		d.Connection = connection
		err = connection.Ping()
		if err != nil {
			if d.OnCannotConnect != nil {
				d.OnCannotConnect(d, err)
			}
			if d.MustConnected {
				log.Log.Fatalf("Cannot connect and ping to database %s/%s (%s)", d.NameId, d.NonSensitiveConnectionString, err.Error())
				return nil
			} else {
				log.Log.Errorf("Cannot connect and ping to database %s/%s (%s)", d.NameId, d.NonSensitiveConnectionString, err.Error())
				return err
			}
		}
		d.Connected = true
		log.Log.Infof("Connecting to database %s/%s... done CONNECTED", d.NameId, d.NonSensitiveConnectionString)
	}
	return nil
}

func (d *DXDatabase) CheckConnection() (err error) {
	if d.Connection == nil {
		d.Connected = false
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := d.Connection.PingContext(ctx); err != nil {
		d.Connected = false
		log.Log.Warnf("Database %v ping failed: %v", d.NameId, err.Error())
		return err
	}
	d.Connected = true
	return nil
}

func (d *DXDatabase) Disconnect() (err error) {
	if d.Connected {
		log.Log.Infof("Disconnecting to database %s/%s... start", d.NameId, d.NonSensitiveConnectionString)
		err := d.Connection.Close()
		if err != nil {
			log.Log.Errorf("Disconnecting to database %s/%s error (%s)", d.NameId, d.NonSensitiveConnectionString, err.Error())
			return err
		}
		d.Connection = nil
		d.Connected = false
		log.Log.Infof("Disconnecting to database %s/%s... done DISCONNECTED", d.NameId, d.NonSensitiveConnectionString)
	}
	return nil
}

// Execute runs a raw named-parameter statement outside the CRUD surface.
func (d *DXDatabase) Execute(statement string, parameters utils.JSON) (r any, err error) {
	query := pq.NewNamedParameterQuery(statement)
	query.SetValuesFromMap(parameters)
	s := query.GetParsedQuery()
	p := query.GetParsedParameters()
	r, err = d.Connection.Exec(s, p...)
	return r, err
}

type DXDatabaseManager struct {
	Databases map[string]*DXDatabase
}

var Manager = DXDatabaseManager{
	Databases: map[string]*DXDatabase{},
}

func (m *DXDatabaseManager) NewDatabase(nameId string, mustConnected bool) *DXDatabase {
	d := &DXDatabase{
		NameId:        nameId,
		MustConnected: mustConnected,
	}
	m.Databases[nameId] = d
	return d
}

// NewDatabaseFromConnection registers a database around an already-open
// connection. One connection constructed at process startup and passed in
// explicitly keeps the one-shared-connection semantics without hidden
// global state; it is also the seam the tests use.
func (m *DXDatabaseManager) NewDatabaseFromConnection(nameId string, connection *sqlx.DB) *DXDatabase {
	d := &DXDatabase{
		NameId:       nameId,
		IsConfigured: true,
		Connected:    true,
		Connection:   connection,
		DatabaseType: database_type.StringToDXDatabaseType(connection.DriverName()),
	}
	m.Databases[nameId] = d
	return d
}

func (m *DXDatabaseManager) LoadFromConfiguration(configurationNameId string) (err error) {
	configurationData, ok := configuration.Manager.Configurations[configurationNameId]
	if !ok {
		return log.Log.ErrorAndCreateErrorf("Configuration %s not found", configurationNameId)
	}
	for nameId := range *(configurationData.Data) {
		d, ok := m.Databases[nameId]
		if !ok {
			d = m.NewDatabase(nameId, false)
		}
		err = d.ApplyFromConfiguration()
		if err != nil {
			return err
		}
		if d.IsConnectAtStart {
			err = d.Connect()
			if err != nil {
				return err
			}
		}
	}
	return nil
}
