// Package distro models the distribution index served to the launcher and
// the version manifests used to launch a server's game.
package distro

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

// DefaultPort is the Minecraft server port assumed when an address has none.
const DefaultPort = 25565

// Distribution is the root of the distribution index.
type Distribution struct {
	Version string    `json:"version"`
	Discord *Discord  `json:"discord,omitempty"`
	RSS     string    `json:"rss,omitempty"`
	Servers []*Server `json:"servers"`
}

// Discord holds the rich presence application shared by every server.
type Discord struct {
	ClientID       string `json:"clientId"`
	SmallImageText string `json:"smallImageText,omitempty"`
	SmallImageKey  string `json:"smallImageKey,omitempty"`
}

// ServerDiscord holds per-server rich presence settings.
type ServerDiscord struct {
	ShortID        string `json:"shortId"`
	LargeImageText string `json:"largeImageText,omitempty"`
	LargeImageKey  string `json:"largeImageKey,omitempty"`
}

// Server is a launchable server entry.
type Server struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description,omitempty"`
	Icon             string         `json:"icon,omitempty"`
	Version          string         `json:"version"`
	Address          string         `json:"address"`
	MinecraftVersion string         `json:"minecraftVersion"`
	Discord          *ServerDiscord `json:"discord,omitempty"`
	MainServer       bool           `json:"mainServer"`
	Autoconnect      bool           `json:"autoconnect"`
	JavaOptions      *JavaOptions   `json:"javaOptions,omitempty"`
	Modules          []*Module      `json:"modules"`
}

// JavaOptions describes the Java runtime a server expects.
type JavaOptions struct {
	SupportedVersions string `json:"supported,omitempty"`
	SuggestedMajor    int    `json:"suggestedMajor,omitempty"`
	Distribution      string `json:"distribution,omitempty"`
	RAM               *RAM   `json:"ram,omitempty"`
}

// RAM holds memory sizes in megabytes.
type RAM struct {
	Recommended int `json:"recommended"`
	Minimum     int `json:"minimum"`
}

// HostPort splits the server address into host and port, defaulting the
// port to DefaultPort.
func (s *Server) HostPort() (string, int, error) {
	addr := strings.TrimSpace(s.Address)
	if addr == "" {
		return "", 0, fmt.Errorf("server %s has no address", s.ID)
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		// No port present.
		return addr, DefaultPort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("server %s has invalid port %q", s.ID, portStr)
	}
	return host, port, nil
}

// Server returns the server with the given id, or nil.
func (d *Distribution) Server(id string) *Server {
	for _, s := range d.Servers {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// MainServer returns the server flagged as main, falling back to the first
// server. It returns nil for an empty distribution.
func (d *Distribution) MainServer() *Server {
	for _, s := range d.Servers {
		if s.MainServer {
			return s
		}
	}
	if len(d.Servers) > 0 {
		return d.Servers[0]
	}
	return nil
}

// DecodeDistribution reads a distribution index.
func DecodeDistribution(r io.Reader) (*Distribution, error) {
	var d Distribution
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("error decoding distribution: %w", err)
	}
	for _, s := range d.Servers {
		if s.ID == "" {
			return nil, fmt.Errorf("distribution contains a server without id")
		}
	}
	return &d, nil
}
