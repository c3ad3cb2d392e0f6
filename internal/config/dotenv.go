package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DefaultEnv is assumed when APP_ENV is set nowhere
const DefaultEnv = "local"

// LoadDotEnv loads env files from the working directory. See LoadDotEnvFrom.
func LoadDotEnv() (env string, loaded []string) {
	return LoadDotEnvFrom(".")
}

// LoadDotEnvFrom loads env files from dir with priority
// .env.<APP_ENV>.local > .env.<APP_ENV> > .env.local > .env.
// godotenv.Load never overwrites a variable that is already set, so OS env
// vars always win and earlier files win over later ones.
// APP_ENV itself may come from the OS or from one of the generic files.
// Returns the resolved environment and the files actually loaded.
func LoadDotEnvFrom(dir string) (string, []string) {
	generic := existing(dir, ".env.local", ".env")

	env := os.Getenv("APP_ENV")
	for _, f := range generic {
		if env != "" {
			break
		}
		if vars, err := godotenv.Read(f); err == nil {
			env = vars["APP_ENV"]
		}
	}
	if env == "" {
		env = DefaultEnv
	}

	loaded := append(existing(dir, ".env."+env+".local", ".env."+env), generic...)
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return env, loaded
}

func existing(dir string, names ...string) []string {
	var out []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			out = append(out, path)
		}
	}
	return out
}
