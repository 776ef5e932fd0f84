package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	Session   SessionConfig
	HTTP      HTTPConfig
	RateLimit RateLimitConfig
	AI        AIConfig
	SMS       SMSConfig
	Upload    UploadConfig
	Redis     RedisConfig
	PDF       PDFConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env            string // development, staging, production
	Name           string
	SwaggerEnabled bool
}

// IsDevelopment indica si los errores internos pueden exponer detalle.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	Migrate     bool // aplica schema.sql al arrancar
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de los tokens de acceso y refresh.
type JWTConfig struct {
	Secret            string
	RefreshSecret     string
	Expiration        int // minutos
	RefreshExpiration int // horas
	Issuer            string
}

// SessionConfig secreto de servidor (HMAC de códigos OTP).
type SessionConfig struct {
	Secret string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	FrontendURL    string
	CookieSecure   bool
	CSRFEnabled    bool
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RateLimitConfig umbrales de peticiones por ventana (por IP) y por usuario en el chatbot.
type RateLimitConfig struct {
	Max               int
	WindowSeconds     int
	AuthMax           int
	AuthWindowSeconds int
	ChatbotPerMinute  int
}

// AIConfig proveedor LLM para la extracción de transacciones del chatbot.
type AIConfig struct {
	Provider        string // gemini, openai, anthropic, rule
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	TimeoutSeconds  int
}

// SMSConfig pasarela SMS/Alimtalk.
type SMSConfig struct {
	APIURL      string
	APIKey      string
	SenderKey   string
	SenderPhone string
}

// UploadConfig almacenamiento local de avatares y firmas.
type UploadConfig struct {
	Dir   string
	MaxMB int
}

// PDFConfig fuentes TTF con hangul para el 거래명세서; vacío usa la fuente base.
type PDFConfig struct {
	FontPath     string
	BoldFontPath string
}

// RedisConfig opcional: sesiones de refresh y almacenamiento del rate limiter.
type RedisConfig struct {
	URL      string
	Password string
}

// Proveedores de IA admitidos.
const (
	AIProviderGemini    = "gemini"
	AIProviderOpenAI    = "openai"
	AIProviderAnthropic = "anthropic"
	AIProviderRule      = "rule"
)

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo) y la valida.
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, etc.
func Load() (*Config, error) {
	// .env al entorno del proceso; si no existe no es error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	env := getString(v, "APP_ENV", "development")
	cfg := &Config{
		App: AppConfig{
			Env:            env,
			Name:           getString(v, "APP_NAME", "bizledger-api"),
			SwaggerEnabled: getBool(v, "SWAGGER_ENABLED", env == "development"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "bizledger"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			Migrate:     getBool(v, "DB_MIGRATE", false),
		},
		JWT: JWTConfig{
			Secret:            getString(v, "JWT_SECRET", ""),
			RefreshSecret:     getString(v, "JWT_REFRESH_SECRET", ""),
			Expiration:        getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			RefreshExpiration: getInt(v, "JWT_REFRESH_EXPIRATION_HOURS", 168),
			Issuer:            getString(v, "JWT_ISSUER", "bizledger-api"),
		},
		Session: SessionConfig{
			Secret: getString(v, "SESSION_SECRET", ""),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "HTTP_PORT", 8080),
			AllowedOrigins: splitList(getString(v, "CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
			FrontendURL:    getString(v, "FRONTEND_URL", "http://localhost:3000"),
			CookieSecure:   getBool(v, "COOKIE_SECURE", env == "production"),
			CSRFEnabled:    getBool(v, "CSRF_ENABLED", env == "production"),
		},
		RateLimit: RateLimitConfig{
			Max:               getInt(v, "RATE_LIMIT_MAX", 300),
			WindowSeconds:     getInt(v, "RATE_LIMIT_WINDOW_SECONDS", 900),
			AuthMax:           getInt(v, "AUTH_RATE_LIMIT_MAX", 10),
			AuthWindowSeconds: getInt(v, "AUTH_RATE_LIMIT_WINDOW_SECONDS", 900),
			ChatbotPerMinute:  getInt(v, "CHATBOT_RATE_PER_MINUTE", 20),
		},
		AI: AIConfig{
			Provider:        strings.ToLower(getString(v, "AI_PROVIDER", AIProviderGemini)),
			GeminiAPIKey:    getString(v, "GEMINI_API_KEY", ""),
			GeminiModel:     getString(v, "GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIAPIKey:    getString(v, "OPENAI_API_KEY", ""),
			OpenAIModel:     getString(v, "OPENAI_MODEL", "gpt-4o-mini"),
			AnthropicAPIKey: getString(v, "ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getString(v, "ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
			TimeoutSeconds:  getInt(v, "AI_TIMEOUT_SECONDS", 15),
		},
		SMS: SMSConfig{
			APIURL:      getString(v, "SMS_API_URL", ""),
			APIKey:      getString(v, "SMS_API_KEY", ""),
			SenderKey:   getString(v, "SMS_SENDER_KEY", ""),
			SenderPhone: getString(v, "SMS_SENDER_PHONE", ""),
		},
		Upload: UploadConfig{
			Dir:   getString(v, "UPLOAD_DIR", "./uploads"),
			MaxMB: getInt(v, "UPLOAD_MAX_MB", 5),
		},
		Redis: RedisConfig{
			URL:      getString(v, "REDIS_URL", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
		},
		PDF: PDFConfig{
			FontPath:     getString(v, "PDF_FONT_PATH", ""),
			BoldFontPath: getString(v, "PDF_BOLD_FONT_PATH", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa los valores obligatorios; el arranque falla con todos los problemas juntos.
func (c *Config) Validate() error {
	var errs []error
	minSecret := 32
	if c.App.IsDevelopment() {
		minSecret = 1
	}
	if len(c.JWT.Secret) < minSecret {
		errs = append(errs, fmt.Errorf("JWT_SECRET es obligatorio (mínimo %d caracteres)", minSecret))
	}
	if len(c.JWT.RefreshSecret) < minSecret {
		errs = append(errs, fmt.Errorf("JWT_REFRESH_SECRET es obligatorio (mínimo %d caracteres)", minSecret))
	}
	if c.JWT.Secret != "" && c.JWT.Secret == c.JWT.RefreshSecret {
		errs = append(errs, errors.New("JWT_SECRET y JWT_REFRESH_SECRET deben ser distintos"))
	}
	if c.JWT.Expiration <= 0 || c.JWT.RefreshExpiration <= 0 {
		errs = append(errs, errors.New("expiración de JWT debe ser positiva"))
	}
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET es obligatorio"))
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT fuera de rango: %d", c.HTTP.Port))
	}
	for _, origin := range c.HTTP.AllowedOrigins {
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("CORS_ALLOWED_ORIGINS contiene un origen inválido: %q", origin))
		}
	}
	switch c.AI.Provider {
	case AIProviderGemini, AIProviderOpenAI, AIProviderAnthropic, AIProviderRule:
	default:
		errs = append(errs, fmt.Errorf("AI_PROVIDER inválido: %q (gemini, openai, anthropic, rule)", c.AI.Provider))
	}
	if c.AI.TimeoutSeconds <= 0 {
		errs = append(errs, errors.New("AI_TIMEOUT_SECONDS debe ser positivo"))
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.WindowSeconds <= 0 ||
		c.RateLimit.AuthMax <= 0 || c.RateLimit.AuthWindowSeconds <= 0 || c.RateLimit.ChatbotPerMinute <= 0 {
		errs = append(errs, errors.New("los límites de peticiones deben ser positivos"))
	}
	if c.Upload.MaxMB <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_MB debe ser positivo"))
	}
	if c.Upload.Dir == "" {
		errs = append(errs, errors.New("UPLOAD_DIR es obligatorio"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuración inválida: %w", errors.Join(errs...))
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return -1
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
