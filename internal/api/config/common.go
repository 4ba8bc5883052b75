package config

// Config 配置主体
type Config struct {
	Server             ServerConfig        `mapstructure:"server"`
	DB                 DBConfig            `mapstructure:"database"`
	Redis              RedisConfig         `mapstructure:"redis"`
	Mongo              MongoConfig         `mapstructure:"mongo"`
	MinIO              MinIOConfig         `mapstructure:"minio"`
	Elastic            ElasticConfig       `mapstructure:"elastic"`
	SMS                SMSConfig           `mapstructure:"sms"`
	Share              ShareConfig         `mapstructure:"share"`
	Metadata           MetadataConfig      `mapstructure:"metadata"`
	Classifier         ClassifierConfig    `mapstructure:"classifier"`
	Logstash           LogstashConfig      `mapstructure:"logstash"`
	Kafka              KafkaConfig         `mapstructure:"kafka"`
	KafkaEventConsumer KafkaConsumerGroup  `mapstructure:"kafka_event_consumer"`
	KafkaIndexConsumer KafkaConsumerGroup  `mapstructure:"kafka_index_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig Mongo配置
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	TempBucket       string `mapstructure:"temp_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	UsePublicLink    bool   `mapstructure:"use_public_link"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	ThingIndex string `mapstructure:"thing_index"`
}

type SMSConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	ApiKey   string `mapstructure:"api_key"`
}

// ShareConfig 分享深链配置
type ShareConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// MetadataConfig 外部元数据源配置
type MetadataConfig struct {
	BooksURL    string `mapstructure:"books_url"`
	MoviesURL   string `mapstructure:"movies_url"`
	MoviesKey   string `mapstructure:"movies_key"`
	PlacesURL   string `mapstructure:"places_url"`
	PlacesKey   string `mapstructure:"places_key"`
	FetchProxy  string `mapstructure:"fetch_proxy"`
}

// ClassifierConfig 链接类别分类模型配置
type ClassifierConfig struct {
	URL    string `mapstructure:"url"`
	Model  string `mapstructure:"model"`
	ApiKey string `mapstructure:"api_key"`
}

// LogstashConfig 日志上报配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Topic    string         `mapstructure:"topic"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaConsumerGroup struct {
	GroupID string `mapstructure:"group_id"`
}
