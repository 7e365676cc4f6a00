// Package takserver locates and controls the TAK Manager compose project
// inside the configured install directory. The install dir is the directory
// the TAK Manager distribution was unpacked into; it carries a compose file
// describing the server container and its published port.
package takserver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// preferredService is picked when the compose file defines several services.
const preferredService = "tak-manager"

// composeFileNames are tried in order inside each candidate directory.
var composeFileNames = []string{"docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml"}

// Project describes a located TAK Manager compose project.
type Project struct {
	Dir           string // directory holding the compose file
	ComposeFile   string // absolute path to the compose file
	Service       string // compose service name for the TAK server
	ContainerName string // container name the service runs under
	Port          string // first published host port, "" if none declared
}

// Locate finds the compose project under installDir. It checks installDir
// itself first, then one level of subdirectories (distributions unpack into
// a versioned folder like "tak-manager-1.2.0").
func Locate(installDir string) (*Project, error) {
	if installDir == "" {
		return nil, fmt.Errorf("install directory is not configured")
	}
	if _, err := os.Stat(installDir); err != nil {
		return nil, fmt.Errorf("install directory %s: %w", installDir, err)
	}

	dirs := []string{installDir}
	if entries, err := os.ReadDir(installDir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, filepath.Join(installDir, e.Name()))
			}
		}
	}

	for _, dir := range dirs {
		for _, name := range composeFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return parseProject(dir, path)
			}
		}
	}
	return nil, fmt.Errorf("no compose file found under %s", installDir)
}

type composeDoc struct {
	Name     string                    `yaml:"name"`
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	ContainerName string        `yaml:"container_name"`
	Image         string        `yaml:"image"`
	Ports         []portMapping `yaml:"ports"`
}

// portMapping accepts both compose port syntaxes: the short scalar form
// ("8443:8443", "127.0.0.1:8443:8443") and the long mapping form
// ({published: 8443, target: 8443}).
type portMapping struct {
	HostPort string
}

func (p *portMapping) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		p.HostPort = hostPortFromShortForm(node.Value)
		return nil
	case yaml.MappingNode:
		// published may be an int, a string, or a range ("8000-9000").
		var long struct {
			Published any `yaml:"published"`
		}
		if err := node.Decode(&long); err != nil {
			return err
		}
		if long.Published != nil {
			p.HostPort = fmt.Sprint(long.Published)
		}
		return nil
	default:
		return fmt.Errorf("unsupported port mapping on line %d", node.Line)
	}
}

// hostPortFromShortForm extracts the host port from "[ip:]host:container[/proto]".
// A bare container port ("8443") publishes no fixed host port.
func hostPortFromShortForm(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return ""
	}
	// host port is second-to-last: handles the optional leading bind IP
	return parts[len(parts)-2]
}

func parseProject(dir, composeFile string) (*Project, error) {
	data, err := os.ReadFile(composeFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", composeFile, err)
	}

	var doc composeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", composeFile, err)
	}
	if len(doc.Services) == 0 {
		return nil, fmt.Errorf("%s declares no services", composeFile)
	}

	service := pickService(doc.Services)
	svc := doc.Services[service]

	containerName := svc.ContainerName
	if containerName == "" {
		// Compose default: <project>-<service>-1, project defaulting to the
		// directory name.
		project := doc.Name
		if project == "" {
			project = strings.ToLower(filepath.Base(dir))
		}
		containerName = fmt.Sprintf("%s-%s-1", project, service)
	}

	port := ""
	for _, pm := range svc.Ports {
		if pm.HostPort != "" {
			if _, err := strconv.Atoi(pm.HostPort); err == nil {
				port = pm.HostPort
				break
			}
		}
	}

	return &Project{
		Dir:           dir,
		ComposeFile:   composeFile,
		Service:       service,
		ContainerName: containerName,
		Port:          port,
	}, nil
}

// pickService returns the preferred service name, or the alphabetically
// first one for determinism when the preferred name is absent.
func pickService(services map[string]composeService) string {
	if _, ok := services[preferredService]; ok {
		return preferredService
	}
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0]
}
