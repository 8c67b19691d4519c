package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/robopost/internal/config"
	_ "github.com/roach88/robopost/internal/dialect" // registers the dialects
	"github.com/roach88/robopost/internal/post"
	"github.com/roach88/robopost/internal/replay"
	"github.com/roach88/robopost/internal/sink"
	"github.com/roach88/robopost/internal/store"
)

var (
	errProgram = errors.New("program")
	errCatalog = errors.New("catalog")
)

// BackendFlags select and configure the robot dialect. Later sources
// override earlier ones: environment, program file, config file, flags.
type BackendFlags struct {
	ConfigPath string
	Post       string
	Name       string
	Axes       int

	// Record wraps the selected dialect in the replay recorder.
	Record    bool
	Precision int
}

func (f *BackendFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.ConfigPath, "config", "c", "", "backend config file (.cue, .yaml or .json)")
	cmd.Flags().StringVarP(&f.Post, "post", "p", "", "robot dialect (see 'robopost posts')")
	cmd.Flags().StringVar(&f.Name, "robot", "", "robot name")
	cmd.Flags().IntVar(&f.Axes, "axes", 0, "number of robot axes")
	cmd.Flags().BoolVar(&f.Record, "record", false, "write a replay script instead of controller code")
	cmd.Flags().IntVar(&f.Precision, "precision", 0, "round replay script floats to this many decimals (default exact; rounding can change replayed output)")
}

// resolveConfig layers the configuration sources over defaults.
func resolveConfig(f BackendFlags, defaults map[string]any) (post.Config, error) {
	base := config.Merge(config.EnvDefaults(), defaults)

	if f.ConfigPath != "" {
		cfg, err := config.Load(f.ConfigPath, base)
		if err != nil {
			return post.Config{}, err
		}
		base = cfg.Map()
	}

	overrides := map[string]any{}
	if f.Post != "" {
		overrides[post.KeyPost] = f.Post
	}
	if f.Name != "" {
		overrides[post.KeyName] = f.Name
	}
	if f.Axes > 0 {
		overrides[post.KeyAxes] = f.Axes
	}
	if f.Precision != 0 {
		overrides[replay.KeyPrecision] = f.Precision
	}
	merged := config.Merge(base, overrides)

	if f.Record {
		if name, ok := merged[post.KeyPost]; ok {
			merged[replay.KeyRealPost] = name
		}
		merged[post.KeyPost] = replay.RecorderName
	}
	return config.Validate("flags", merged)
}

// catalog records saves for one command run. A nil catalog records
// nothing.
type catalog struct {
	store   *store.Store
	session *store.Session
}

func openCatalog(path string) (*catalog, error) {
	if path == "" {
		return nil, nil
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errCatalog, err)
	}
	sess := store.NewSession(st, store.UUIDv7Generator{})
	slog.Debug("catalog session started", "db", path, "session", sess.ID())
	return &catalog{store: st, session: sess}, nil
}

func (c *catalog) observer(ctx context.Context) func(post.SaveEvent) {
	if c == nil {
		return nil
	}
	return c.session.Observer(ctx)
}

func (c *catalog) sessionID() string {
	if c == nil {
		return ""
	}
	return c.session.ID()
}

func (c *catalog) Close() error {
	if c == nil {
		return nil
	}
	return c.store.Close()
}

// newEnv builds the collaborators handed to every backend. onSave, when
// set, sees every save before the catalog does.
func newEnv(ctx context.Context, settings config.Settings, cat *catalog, onSave func(post.SaveEvent)) post.Env {
	env := post.Env{}
	if settings.UploadCommand != "" {
		env.Uploader = sink.CommandUploader{Command: settings.UploadCommand}
	}

	record := cat.observer(ctx)
	env.Observe = func(ev post.SaveEvent) {
		if onSave != nil {
			onSave(ev)
		}
		if record != nil {
			record(ev)
		}
	}
	return env
}
