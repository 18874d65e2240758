package api

import (
	"bytes"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Identifier selects a challenge or machine either by numeric ID or by
// display name.
type Identifier struct {
	ID   int
	Name string
}

func ByID(id int) Identifier { return Identifier{ID: id} }

func ByName(name string) Identifier { return Identifier{Name: name} }

func (i Identifier) IsID() bool { return i.Name == "" }

func (i Identifier) String() string {
	if i.IsID() {
		return strconv.Itoa(i.ID)
	}
	return i.Name
}

func (i Identifier) pathSegment() string {
	if i.IsID() {
		return strconv.Itoa(i.ID)
	}
	return url.PathEscape(i.Name)
}

// FlexInt decodes numbers the platform sometimes sends as strings.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return err
	}
	*n = FlexInt(v)
	return nil
}

type Challenge struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category_name"`
	Difficulty  string  `json:"difficulty"`
	Points      FlexInt `json:"points"`
	HasDownload bool    `json:"download"`
	HasDocker   bool    `json:"docker"`
	DockerIP    string  `json:"docker_ip"`
	DockerPort  FlexInt `json:"docker_port"`
	Solved      bool    `json:"authUserSolve"`
}

type ChallengeInstance struct {
	IP   string
	Port int
}

func (i ChallengeInstance) Addr() string {
	return net.JoinHostPort(i.IP, strconv.Itoa(i.Port))
}

type Machine struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	OS         string  `json:"os"`
	Difficulty string  `json:"difficultyText"`
	Points     FlexInt `json:"points"`
	IP         string  `json:"ip"`
}

type MachineInstance struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	IP   string `json:"ip"`
}

func (m MachineInstance) ReleaseArena() bool {
	return strings.EqualFold(strings.ReplaceAll(m.Type, "_", " "), "release arena")
}

type VPNServer struct {
	ID             int    `json:"id"`
	FriendlyName   string `json:"friendly_name"`
	CurrentClients int    `json:"current_clients"`
	Full           bool   `json:"full"`
	Location       string `json:"location"`
}

// Tokens is the credential pair persisted in the cache file.
type Tokens struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token,omitempty"`
}
