package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lofty-launcher/internal/account"
	"lofty-launcher/internal/appstate"
	"lofty-launcher/internal/build"
	"lofty-launcher/internal/distro"
	"lofty-launcher/internal/library"
	"lofty-launcher/internal/lofty"
	"lofty-launcher/internal/modcfg"
)

// dockName is the application name shown in the macOS dock.
const dockName = "LoftyLauncher"

// Builder assembles the launch command for one server.
type Builder struct {
	Layout lofty.Layout
	Server *distro.Server
	// Version is the vanilla manifest of the server's Minecraft version.
	Version *distro.VersionManifest
	// ModLoader is the Forge or Fabric manifest, nil for vanilla servers.
	ModLoader *distro.VersionManifest
	User      account.User
	Java      appstate.JavaConfig
	Game      appstate.GameSettings
	// Mods is the user's mod configuration for the server.
	Mods map[string]*modcfg.Config

	LauncherVersion string
	// GOOS and Arch select the platform rules are evaluated for. They
	// default to build.OS and build.Arch.
	GOOS string
	Arch string
	// TempDir is where the per-launch natives directory is created. It
	// defaults to os.TempDir.
	TempDir string
}

func (b *Builder) goos() string {
	if b.GOOS != "" {
		return b.GOOS
	}
	return build.OS()
}

func (b *Builder) arch() string {
	if b.Arch != "" {
		return b.Arch
	}
	return build.Arch()
}

func (b *Builder) atLeast(v string) bool {
	return library.VersionAtLeast(v, b.Server.MinecraftVersion)
}

// modern reports whether the version uses the 1.13+ argument format.
func (b *Builder) modern() bool {
	return b.atLeast("1.13")
}

func (b *Builder) usingFabric() bool {
	m := b.Server.ModLoader()
	return m != nil && m.Type == distro.TypeFabric
}

// effective returns the manifest that provides the main class: the mod
// loader when present.
func (b *Builder) effective() *distro.VersionManifest {
	if b.ModLoader != nil {
		return b.ModLoader
	}
	return b.Version
}

func (b *Builder) ruleEnv() distro.Env {
	return distro.Env{
		OS:   b.goos(),
		Arch: b.arch(),
		Features: map[string]bool{
			"has_custom_resolution": !b.Game.Fullscreen,
			"is_demo_user":          false,
		},
	}
}

// Build writes the mod list and natives for the launch and returns the
// process description. The natives directory is removed again on failure.
func (b *Builder) Build(ctx context.Context) (_ *LaunchSpec, err error) {
	if b.Server == nil || b.Version == nil {
		return nil, errors.New("server and version manifest are required")
	}
	if b.effective().MainClass == "" {
		return nil, fmt.Errorf("version %s has no main class", b.effective().ID)
	}

	java, err := FindJava(b.Java.Executable, b.Layout.Runtime(), b.goos())
	if err != nil {
		return nil, err
	}

	instanceDir := b.Layout.Instance(b.Server.ID)
	if err := os.MkdirAll(instanceDir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create instance directory: %w", err)
	}

	tempDir := b.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create temp directory: %w", err)
	}
	nativesDir, err := os.MkdirTemp(tempDir, "lofty-natives-"+b.Server.ID+"-")
	if err != nil {
		return nil, fmt.Errorf("unable to create natives directory: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(nativesDir)
		}
	}()

	enabled := modcfg.Resolve(b.Mods, b.Server.Modules)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := b.classpath(instanceDir, nativesDir, enabled.Mods)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	modArgs, err := b.modArguments(instanceDir, enabled.Mods, enabled.LiteMods)
	if err != nil {
		return nil, err
	}

	vars := b.variables(instanceDir, nativesDir, res.Classpath)

	var jvmArgs, gameArgs []string
	if b.modern() {
		jvmArgs, gameArgs = b.modernArguments(vars)
	} else {
		jvmArgs, gameArgs = b.legacyArguments(vars, res.Classpath, nativesDir)
	}
	gameArgs = append(gameArgs, modArgs...)

	spec := &LaunchSpec{
		Executable:  java,
		MainClass:   b.effective().MainClass,
		JVMArgs:     jvmArgs,
		Classpath:   res.Classpath,
		Superseded:  res.Superseded,
		ProgramArgs: gameArgs,
		Dir:         instanceDir,
		Detached:    b.Game.LaunchDetached,
		NativesDir:  nativesDir,
	}

	slog.Info("built launch spec",
		"server", b.Server.ID,
		"minecraft", b.Server.MinecraftVersion,
		"main_class", spec.MainClass,
		"classpath", len(spec.Classpath),
		"superseded", len(spec.Superseded),
	)
	return spec, nil
}

// variables returns the values of the manifest placeholders.
func (b *Builder) variables(instanceDir, nativesDir string, cp library.Classpath) map[string]string {
	return map[string]string{
		"auth_player_name":    b.User.Name,
		"auth_uuid":           b.User.UUID,
		"auth_access_token":   b.User.AccessToken,
		"auth_session":        b.User.AccessToken,
		"user_type":           b.User.UserType,
		"user_properties":     "{}",
		"version_name":        b.effective().ID,
		"version_type":        b.Version.Type,
		"game_directory":      instanceDir,
		"assets_root":         b.Layout.Assets(),
		"game_assets":         filepath.Join(b.Layout.Assets(), "virtual", "legacy"),
		"assets_index_name":   b.Version.AssetIndexID(),
		"resolution_width":    strconv.Itoa(b.Game.ResolutionWidth),
		"resolution_height":   strconv.Itoa(b.Game.ResolutionHeight),
		"natives_directory":   nativesDir,
		"launcher_name":       build.Name,
		"launcher_version":    b.LauncherVersion,
		"classpath":           cp.Join(b.goos()),
		"classpath_separator": library.Separator(b.goos()),
		"library_directory":   b.Layout.Libraries(),
	}
}

// memoryArgs returns dock, heap and user JVM options.
func (b *Builder) memoryArgs() []string {
	var args []string
	if b.goos() == "darwin" {
		args = append(args, "-Xdock:name="+dockName)
	}
	if b.Java.MaxRAM != "" {
		args = append(args, "-Xmx"+b.Java.MaxRAM)
	}
	if b.Java.MinRAM != "" {
		args = append(args, "-Xms"+b.Java.MinRAM)
	}
	return append(args, b.Java.JVMOptions...)
}

// modernArguments builds 1.13+ arguments from the manifests' argument lists.
func (b *Builder) modernArguments(vars map[string]string) (jvm, game []string) {
	env := b.ruleEnv()

	var vanillaJVM, vanillaGame []distro.Argument
	if b.Version.Arguments != nil {
		vanillaJVM, vanillaGame = b.Version.Arguments.JVM, b.Version.Arguments.Game
	}
	jvm = flatten(vanillaJVM, env)
	if b.ModLoader != nil && b.ModLoader.Arguments != nil {
		jvm = append(jvm, flatten(b.ModLoader.Arguments.JVM, env)...)
	}
	jvm = append(expand(jvm, vars), b.memoryArgs()...)

	game = flatten(vanillaGame, env)
	game = append(game, b.displayArgs(false)...)
	game = append(game, b.autoconnectArgs()...)
	if b.ModLoader != nil && b.ModLoader.Arguments != nil {
		game = append(game, flatten(b.ModLoader.Arguments.Game, env)...)
	}
	return jvm, expand(game, vars)
}

// legacyArguments builds pre-1.13 arguments from minecraftArguments.
func (b *Builder) legacyArguments(vars map[string]string, cp library.Classpath, nativesDir string) (jvm, game []string) {
	jvm = []string{"-cp", cp.Join(b.goos())}
	jvm = append(jvm, b.memoryArgs()...)
	jvm = append(jvm, "-Djava.library.path="+nativesDir)

	raw := b.effective().MinecraftArguments
	if raw == "" {
		raw = b.Version.MinecraftArguments
	}
	game = expand(strings.Fields(raw), vars)
	game = append(game, b.displayArgs(true)...)
	game = append(game, b.autoconnectArgs()...)
	return jvm, game
}

// displayArgs returns the fullscreen flag, plus explicit resolution
// arguments for legacy versions.
func (b *Builder) displayArgs(legacy bool) []string {
	if b.Game.Fullscreen {
		return []string{"--fullscreen", "true"}
	}
	if !legacy {
		return nil
	}
	return []string{
		"--width", strconv.Itoa(b.Game.ResolutionWidth),
		"--height", strconv.Itoa(b.Game.ResolutionHeight),
	}
}

// autoconnectArgs joins the server directly when both the user and the
// server enable it.
func (b *Builder) autoconnectArgs() []string {
	if !b.Game.Autoconnect || !b.Server.Autoconnect {
		return nil
	}
	host, port, err := b.Server.HostPort()
	if err != nil {
		slog.Warn("skipping autoconnect", "server", b.Server.ID, "error", err)
		return nil
	}
	if b.atLeast("1.20") {
		return []string{"--quickPlayMultiplayer", host + ":" + strconv.Itoa(port)}
	}
	return []string{"--server", host, "--port", strconv.Itoa(port)}
}
