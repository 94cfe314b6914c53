package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Значения по умолчанию для настроек, которые не заданы ни в baseline, ни в окружении
const (
	defaultLinger         = 5 * time.Millisecond
	defaultRequestTimeout = 30 * time.Second
	defaultBatchSize      = 100
	defaultMaxAttempts    = 10
	defaultDialTimeout    = 10 * time.Second

	maxRetries = math.MaxInt32 - 1
)

// ClientSettings - настройки kafka-go клиента, разобранные из Properties
type ClientSettings struct {
	Brokers        []string
	ClientID       string
	RequiredAcks   kafka.RequiredAcks
	Compression    kafka.Compression
	BatchTimeout   time.Duration
	BatchBytes     int64
	BatchSize      int
	RequestTimeout time.Duration
	MaxAttempts    int
	TLS            *tls.Config
	SASL           sasl.Mechanism
}

// ParseSettings разбирает Properties в ClientSettings.
// Неизвестные настройки игнорируются, некорректные значения известных - ошибка.
func ParseSettings(p Properties) (ClientSettings, error) {
	s := ClientSettings{
		ClientID:       p.Get(PropClientID),
		RequiredAcks:   kafka.RequireAll,
		BatchTimeout:   defaultLinger,
		BatchSize:      defaultBatchSize,
		RequestTimeout: defaultRequestTimeout,
		MaxAttempts:    defaultMaxAttempts,
	}

	s.Brokers = splitBrokers(p.Get(PropBootstrapServers))
	if len(s.Brokers) == 0 {
		return ClientSettings{}, fmt.Errorf("%s is required", PropBootstrapServers)
	}

	if v, ok := p.Lookup(PropAcks); ok {
		acks, err := parseAcks(v)
		if err != nil {
			return ClientSettings{}, err
		}
		s.RequiredAcks = acks
	}

	if v, ok := p.Lookup(PropCompressionType); ok {
		c, err := parseCompression(v)
		if err != nil {
			return ClientSettings{}, err
		}
		s.Compression = c
	}

	if v, ok := p.Lookup(PropLingerMs); ok {
		ms, err := parseNonNegative(PropLingerMs, v)
		if err != nil {
			return ClientSettings{}, err
		}
		s.BatchTimeout = time.Duration(ms) * time.Millisecond
		// kafka-go считает BatchTimeout <= 0 дефолтом (1s), а linger.ms=0 означает "отправлять сразу"
		if s.BatchTimeout == 0 {
			s.BatchTimeout = time.Nanosecond
		}
	}

	if v, ok := p.Lookup(PropBatchSize); ok {
		n, err := parsePositive(PropBatchSize, v)
		if err != nil {
			return ClientSettings{}, err
		}
		s.BatchBytes = n
	}

	if v, ok := p.Lookup(PropBatchNumMessages); ok {
		n, err := parsePositive(PropBatchNumMessages, v)
		if err != nil {
			return ClientSettings{}, err
		}
		s.BatchSize = int(n)
	}

	if v, ok := p.Lookup(PropRequestTimeoutMs); ok {
		ms, err := parsePositive(PropRequestTimeoutMs, v)
		if err != nil {
			return ClientSettings{}, err
		}
		s.RequestTimeout = time.Duration(ms) * time.Millisecond
	}

	if v, ok := p.Lookup(PropRetries); ok {
		n, err := parseNonNegative(PropRetries, v)
		if err != nil {
			return ClientSettings{}, err
		}
		// retries=2147483647 - дефолт Java-клиента, большие значения ограничиваем им же
		s.MaxAttempts = int(min(n, maxRetries)) + 1
	}

	protocol := strings.ToUpper(p.Get(PropSecurityProtocol))
	switch protocol {
	case "", "PLAINTEXT":
	case "SSL", "SASL_SSL", "SASL_PLAINTEXT":
	default:
		return ClientSettings{}, fmt.Errorf("unsupported %s: %s", PropSecurityProtocol, protocol)
	}

	if protocol == "SSL" || protocol == "SASL_SSL" {
		tc, err := buildTLSConfig(p)
		if err != nil {
			return ClientSettings{}, fmt.Errorf("TLS config: %w", err)
		}
		s.TLS = tc
	}

	if protocol == "SASL_SSL" || protocol == "SASL_PLAINTEXT" {
		m, err := buildSASLMechanism(p)
		if err != nil {
			return ClientSettings{}, fmt.Errorf("SASL config: %w", err)
		}
		s.SASL = m
	}

	return s, nil
}

// NewTransport создаёт kafka.Transport с TLS/SASL для writer-ов и admin-клиента
func NewTransport(s ClientSettings) *kafka.Transport {
	return &kafka.Transport{
		ClientID:    s.ClientID,
		DialTimeout: defaultDialTimeout,
		TLS:         s.TLS,
		SASL:        s.SASL,
	}
}

// NewWriter создаёт асинхронный kafka.Writer для одного топика.
// completion вызывается из внутренних горутин writer-а после подтверждения или ошибки батча.
func NewWriter(s ClientSettings, transport kafka.RoundTripper, topic string, completion func([]kafka.Message, error)) *kafka.Writer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(s.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Murmur2Balancer{},
		MaxAttempts:  s.MaxAttempts,
		BatchSize:    s.BatchSize,
		BatchTimeout: s.BatchTimeout,
		ReadTimeout:  s.RequestTimeout,
		WriteTimeout: s.RequestTimeout,
		RequiredAcks: s.RequiredAcks,
		Compression:  s.Compression,
		Async:        true,
		Completion:   completion,
		Transport:    transport,
	}
	if s.BatchBytes > 0 {
		w.BatchBytes = s.BatchBytes
	}
	return w
}

func splitBrokers(v string) []string {
	brokers := []string{}
	for _, b := range strings.Split(v, ",") {
		b = strings.TrimSpace(b)
		// bootstrap.servers иногда задают с listener-схемой (PLAINTEXT://broker:9092)
		if i := strings.Index(b, "://"); i >= 0 {
			b = b[i+3:]
		}
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseAcks(v string) (kafka.RequiredAcks, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "all", "-1":
		return kafka.RequireAll, nil
	case "1", "leader":
		return kafka.RequireOne, nil
	case "0", "none":
		return kafka.RequireNone, nil
	default:
		return 0, fmt.Errorf("invalid %s %q (must be all, -1, 1 or 0)", PropAcks, v)
	}
}

func parseCompression(v string) (kafka.Compression, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none", "":
		return 0, nil
	case "gzip":
		return kafka.Gzip, nil
	case "snappy":
		return kafka.Snappy, nil
	case "lz4":
		return kafka.Lz4, nil
	case "zstd":
		return kafka.Zstd, nil
	default:
		return 0, fmt.Errorf("unsupported %s: %s", PropCompressionType, v)
	}
}

func parseNonNegative(name, v string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must be >= 0", name)
	}
	return n, nil
}

func parsePositive(name, v string) (int64, error) {
	n, err := parseNonNegative(name, v)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return n, nil
}

func buildTLSConfig(p Properties) (*tls.Config, error) {
	tc := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	// пустой ssl.endpoint.identification.algorithm отключает проверку имени хоста
	if v, ok := p.Lookup(PropSSLEndpointIDAlgo); ok && strings.TrimSpace(v) == "" {
		tc.InsecureSkipVerify = true
	}

	if caFile := p.Get(PropSSLCALocation); caFile != "" {
		caCert, err := os.ReadFile(caFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("parse CA certificate")
		}
		tc.RootCAs = pool
	}

	certFile, keyFile := p.Get(PropSSLCertLocation), p.Get(PropSSLKeyLocation)
	if certFile != "" && keyFile != "" {
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tc.Certificates = []tls.Certificate{cert}
	}

	return tc, nil
}

var jaasOption = regexp.MustCompile(`(username|password)\s*=\s*"([^"]*)"`)

// saslCredentials берёт логин/пароль из sasl.username/sasl.password,
// а при их отсутствии - из sasl.jaas.config (формат Java-клиента).
func saslCredentials(p Properties) (string, string) {
	username, password := p.Get(PropSASLUsername), p.Get(PropSASLPassword)
	if username != "" {
		return username, password
	}
	for _, m := range jaasOption.FindAllStringSubmatch(p.Get(PropSASLJAASConfig), -1) {
		switch m[1] {
		case "username":
			username = m[2]
		case "password":
			password = m[2]
		}
	}
	return username, password
}

func buildSASLMechanism(p Properties) (sasl.Mechanism, error) {
	username, password := saslCredentials(p)
	if username == "" {
		return nil, fmt.Errorf("SASL username is required")
	}

	mechanism := strings.ToUpper(p.Get(PropSASLMechanism))
	if mechanism == "" {
		mechanism = "PLAIN"
	}

	switch mechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: username,
			Password: password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, username, password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, username, password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", mechanism)
	}
}
