package config

import (
	"errors"
	"net"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/hashicorp/go-multierror"
	yaml "gopkg.in/yaml.v2"

	"github.com/codeguardian/guardian/eventbus"
)

const (
	TransportMemory = "memory"
	TransportPubSub = "pubsub"
	TransportSQS    = "sqs"
)

type MySQL struct {
	Username   string `long:"mysql-username" description:"MySQL username" env:"MYSQL_USERNAME" value-name:"USERNAME" yaml:"username"`
	Password   string `long:"mysql-password" description:"MySQL password" env:"MYSQL_PASSWORD" value-name:"PASSWORD" yaml:"password"`
	Hostname   string `long:"mysql-hostname" description:"MySQL hostname" env:"MYSQL_HOSTNAME" value-name:"HOSTNAME" yaml:"hostname"`
	Port       uint16 `long:"mysql-port" description:"MySQL port" env:"MYSQL_PORT" value-name:"PORT" yaml:"port"`
	DBName     string `long:"mysql-dbname" description:"MySQL database name" env:"MYSQL_DBNAME" value-name:"DBNAME" yaml:"db_name"`
	SQLitePath string `long:"sqlite-path" description:"use a local SQLite database instead of MySQL" value-name:"PATH" yaml:"sqlite_path"`
}

func (m MySQL) Driver() string {
	if m.SQLitePath != "" {
		return "sqlite3"
	}

	return "mysql"
}

// URI is the connection string for Driver.
func (m MySQL) URI() string {
	if m.SQLitePath != "" {
		return m.SQLitePath
	}

	dsn := mysql.NewConfig()
	dsn.User = m.Username
	dsn.Passwd = m.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(m.Hostname, strconv.Itoa(int(m.Port)))
	dsn.DBName = m.DBName
	dsn.ParseTime = true

	return dsn.FormatDSN()
}

func (m *MySQL) setDefaults() {
	if m.Port == 0 {
		m.Port = 3306
	}
}

func (m MySQL) validate() []error {
	if m.SQLitePath != "" {
		return nil
	}

	var errs []error

	if m.Username == "" {
		errs = append(errs, errors.New("no mysql username specified"))
	}

	if m.Hostname == "" {
		errs = append(errs, errors.New("no mysql hostname specified"))
	}

	if m.DBName == "" {
		errs = append(errs, errors.New("no mysql db name specified"))
	}

	return errs
}

type Bus struct {
	Transport     string `long:"bus-transport" description:"message bus transport" choice:"memory" choice:"pubsub" choice:"sqs" env:"BUS_TRANSPORT" yaml:"transport"`
	Partitions    int    `long:"bus-partitions" description:"partitions per topic for the in-memory bus" yaml:"partitions"`
	MaxDeliveries int    `long:"bus-max-deliveries" description:"deliveries of a failing message before the in-memory bus gives up" yaml:"max_deliveries"`

	PubSub struct {
		ProjectID       string `long:"pubsub-project-id" description:"GCP project id" env:"PUBSUB_PROJECT_ID" value-name:"ID" yaml:"project_id"`
		CredentialsFile string `long:"pubsub-credentials-file" description:"path to a service account key" value-name:"PATH" yaml:"credentials_file"`
		Endpoint        string `long:"pubsub-endpoint" description:"alternative Pub/Sub endpoint, e.g. an emulator" value-name:"HOST:PORT" yaml:"endpoint"`
	} `group:"PubSub Options" yaml:"pubsub"`

	SQS struct {
		Region      string `long:"sqs-region" description:"aws region for SQS" env:"AWS_REGION" value-name:"REGION" yaml:"region"`
		QueuePrefix string `long:"sqs-queue-prefix" description:"prefix of the FIFO queue names" value-name:"PREFIX" yaml:"queue_prefix"`
		Endpoint    string `long:"sqs-endpoint" description:"alternative SQS endpoint" value-name:"URL" yaml:"endpoint"`
	} `group:"SQS Options" yaml:"sqs"`
}

func (b *Bus) setDefaults() {
	if b.Transport == "" {
		b.Transport = TransportMemory
	}

	if b.Partitions == 0 {
		b.Partitions = 3
	}

	if b.MaxDeliveries == 0 {
		b.MaxDeliveries = 3
	}

	if b.SQS.QueuePrefix == "" {
		b.SQS.QueuePrefix = "guardian-"
	}
}

func (b Bus) BuildConfig() eventbus.BuildConfig {
	return eventbus.BuildConfig{
		Transport:             b.Transport,
		Partitions:            b.Partitions,
		MaxDeliveries:         b.MaxDeliveries,
		PubSubProjectID:       b.PubSub.ProjectID,
		PubSubCredentialsFile: b.PubSub.CredentialsFile,
		PubSubEndpoint:        b.PubSub.Endpoint,
		SQSRegion:             b.SQS.Region,
		SQSQueuePrefix:        b.SQS.QueuePrefix,
		SQSEndpoint:           b.SQS.Endpoint,
	}
}

func (b Bus) validate() []error {
	var errs []error

	switch b.Transport {
	case "", TransportMemory:
		if b.Partitions < 0 {
			errs = append(errs, errors.New("bus partitions must be positive"))
		}
	case TransportPubSub:
		if b.PubSub.ProjectID == "" {
			errs = append(errs, errors.New("no pubsub project id specified"))
		}
	case TransportSQS:
		if b.SQS.Region == "" {
			errs = append(errs, errors.New("no sqs region specified"))
		}
	default:
		errs = append(errs, errors.New("unknown bus transport: "+b.Transport))
	}

	return errs
}

type Metrics struct {
	Environment string `long:"environment" description:"environment tag for metrics" env:"ENVIRONMENT" value-name:"NAME" yaml:"environment"`
	AdminAddr   string `long:"admin-addr" description:"address of the metrics admin server" value-name:"HOST:PORT" yaml:"admin_addr"`
	DebugAddr   string `long:"debug-addr" description:"address of the pprof server" value-name:"HOST:PORT" yaml:"debug_addr"`
}

func (m *Metrics) setDefaults() {
	if m.Environment == "" {
		m.Environment = "development"
	}

	if m.AdminAddr == "" {
		m.AdminAddr = "127.0.0.1:9090"
	}

	if m.DebugAddr == "" {
		m.DebugAddr = "127.0.0.1:6060"
	}
}

// load merges the values set on the command line over the YAML file at
// path, when there is one, and returns the result in into.
func load(path string, flagConfig, into interface{}) error {
	if path != "" {
		bs, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if err := yaml.UnmarshalStrict(bs, into); err != nil {
			return err
		}
	}

	return merge(reflect.ValueOf(into).Elem(), reflect.ValueOf(flagConfig).Elem())
}

func errorsOf(errs []error) error {
	var result error
	for _, err := range errs {
		result = multierror.Append(result, err)
	}

	return result
}

func validTimeout(timeout, min, max time.Duration) bool {
	return timeout >= min && timeout <= max
}

// From src/pkg/encoding/json.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

func merge(dst, src reflect.Value) error {
	if !src.IsValid() {
		return nil
	}

	switch src.Kind() {
	case reflect.Struct:
		for i, n := 0, dst.NumField(); i < n; i++ {
			err := merge(dst.Field(i), src.Field(i))
			if err != nil {
				return err
			}
		}
	default:
		if dst.CanSet() && !isEmptyValue(src) {
			dst.Set(src)
		}
	}

	return nil
}
