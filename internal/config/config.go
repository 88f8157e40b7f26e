package config

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	Data   DataConfig
	Agent  AgentConfig
	LLM    LLMConfig
	Mirror MirrorConfig
}

// DataConfig fixes the on-disk layout under one root. Everything the server
// writes lives below Root.
type DataConfig struct {
	Root         string
	ProjectsDir  string
	DeployDir    string
	StudioDir    string
	AgentWorkDir string
	RegistryPath string
}

type AgentConfig struct {
	Bin     string
	Script  string
	Timeout time.Duration
}

type LLMConfig struct {
	Enabled  bool
	Provider string
	APIKey   string
	Model    string
}

type MirrorConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:   *port,
		Env:    env,
		Data:   loadDataConfig(),
		Agent:  loadAgentConfig(),
		LLM:    loadLLMConfig(),
		Mirror: loadMirrorConfig(env),
	}, nil
}

func loadDataConfig() DataConfig {
	root := firstNonEmpty(strings.TrimSpace(os.Getenv("DATA_DIR")), "data")
	return DataConfig{
		Root:         root,
		ProjectsDir:  filepath.Join(root, "projects"),
		DeployDir:    filepath.Join(root, "deploy"),
		StudioDir:    filepath.Join(root, "studio"),
		AgentWorkDir: filepath.Join(root, "agent"),
		RegistryPath: filepath.Join(root, "registry.json"),
	}
}

func loadAgentConfig() AgentConfig {
	timeout := 300
	if raw := strings.TrimSpace(os.Getenv("AGENT_TIMEOUT_SECONDS")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			timeout = n
		}
	}
	return AgentConfig{
		Bin:     firstNonEmpty(strings.TrimSpace(os.Getenv("AGENT_BIN")), "python3"),
		Script:  firstNonEmpty(strings.TrimSpace(os.Getenv("AGENT_SCRIPT")), filepath.Join("agents", "code_action_agent.py")),
		Timeout: time.Duration(timeout) * time.Second,
	}
}

func loadLLMConfig() LLMConfig {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	var apiKey string
	switch provider {
	case "groq":
		apiKey = strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	default:
		apiKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	return LLMConfig{
		Enabled:  provider == "fake" || apiKey != "",
		Provider: provider,
		APIKey:   apiKey,
		Model:    firstNonEmpty(strings.TrimSpace(os.Getenv("LLM_MODEL")), "gemini-2.5-flash"),
	}
}

func loadMirrorConfig(env string) MirrorConfig {
	endpoint := strings.TrimSpace(os.Getenv("MIRROR_S3_ENDPOINT"))
	return MirrorConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("MIRROR_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("MIRROR_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("MIRROR_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("MIRROR_S3_BUCKET")), "siteforge-projects"),
		UseSSL:    resolveMirrorUseSSL(env),
	}
}

func resolveMirrorUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("MIRROR_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
