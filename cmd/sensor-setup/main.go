package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	SENSOR_PASSWORD = "12345678" // Default sensor AP password
	SENSOR_IP       = "192.168.4.1"
	SENSOR_PORT     = "80"
)

func apiBase() string {
	if base := os.Getenv("SPLITMATE_API"); base != "" {
		return strings.TrimRight(base, "/")
	}
	return "http://localhost:5000"
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			PaddingLeft(2)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

type step int

const (
	stepEnteringEmail step = iota
	stepEnteringLoginPassword
	stepLoggingIn
	stepListingSensors
	stepSelectingSensor
	stepConnectingToSensor
	stepEnteringSSID
	stepEnteringPassword
	stepSendingCredentials
	stepEnteringUtilityName
	stepSelectingUtilityType
	stepRegistering
	stepComplete
)

var utilityTypes = []string{"electric", "gas", "water"}

type network struct {
	SSID     string
	Signal   string
	IsSensor bool
}

type model struct {
	step           step
	networks       []network
	sensorNetworks []network
	cursor         int
	typeCursor     int
	selectedSensor *network
	email          string
	loginPass      string
	userID         string
	authToken      string
	houseID        string
	homeSSID       string
	homePassword   string
	utilityName    string
	currentInput   string
	message        string
	quitting       bool
	scanAttempts   int
}

type networksFoundMsg []network
type connectionSuccessMsg struct{}
type sendSuccessMsg struct{}
type registerSuccessMsg struct{}
type scanTickMsg struct{}
type loginSuccessMsg struct {
	userID  string
	token   string
	houseID string
}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel() model {
	return model{
		step:           stepEnteringEmail,
		networks:       []network{},
		sensorNetworks: []network{},
		cursor:         0,
		scanAttempts:   0,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func tickScan() tea.Cmd {
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return scanTickMsg{}
	})
}

func loginUser(email, password string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		payload := map[string]string{
			"email":    email,
			"password": password,
		}

		jsonData, _ := json.Marshal(payload)
		loginURL := apiBase() + "/api/users/login"

		req, _ := http.NewRequest("POST", loginURL, bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("could not reach the SplitMate server - check SPLITMATE_API")}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return errMsg{fmt.Errorf("login failed - check your email and password")}
		}

		var result struct {
			Token string `json:"token"`
			User  struct {
				ID      string `json:"_id"`
				HouseID struct {
					Kind     string   `json:"kind"`
					HouseID  string   `json:"houseId"`
					HouseIDs []string `json:"houseIds"`
				} `json:"houseId"`
			} `json:"user"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return errMsg{fmt.Errorf("unexpected login response")}
		}
		if result.Token == "" || result.User.ID == "" {
			return errMsg{fmt.Errorf("login failed - check your email and password")}
		}

		houseID := result.User.HouseID.HouseID
		if houseID == "" && len(result.User.HouseID.HouseIDs) > 0 {
			houseID = result.User.HouseID.HouseIDs[0]
		}
		if houseID == "" {
			return errMsg{fmt.Errorf("no house registered for this account yet")}
		}

		return loginSuccessMsg{userID: result.User.ID, token: result.Token, houseID: houseID}
	}
}

func listNetworks() tea.Msg {
	cmd := exec.Command("netsh", "wlan", "show", "networks", "mode=bssid")
	output, err := cmd.Output()
	if err != nil {
		return errMsg{fmt.Errorf("failed to list networks: %w", err)}
	}

	networks := parseNetworks(string(output))
	return networksFoundMsg(networks)
}

func parseNetworks(output string) []network {
	var networks []network
	lines := strings.Split(output, "\n")

	var currentSSID string
	var currentSignal string
	sensorPattern := regexp.MustCompile(`(?i)^SplitMate-[0-9a-fA-F]+$`)

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "SSID") && !strings.Contains(line, "BSSID") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				ssid := strings.TrimSpace(parts[1])
				if ssid != "" {
					currentSSID = ssid
				}
			}
		}

		if strings.HasPrefix(line, "Signal") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				currentSignal = strings.TrimSpace(parts[1])
			}
		}

		if currentSSID != "" && currentSignal != "" {
			isSensor := sensorPattern.MatchString(currentSSID)
			networks = append(networks, network{
				SSID:     currentSSID,
				Signal:   currentSignal,
				IsSensor: isSensor,
			})
			currentSSID = ""
			currentSignal = ""
		}
	}

	return networks
}

func connectToNetwork(ssid, password string) tea.Cmd {
	return func() tea.Msg {
		profileXML := fmt.Sprintf(`<?xml version="1.0"?>
<WLANProfile xmlns="http://www.microsoft.com/networking/WLAN/profile/v1">
	<name>%s</name>
	<SSIDConfig>
		<SSID>
			<name>%s</name>
		</SSID>
	</SSIDConfig>
	<connectionType>ESS</connectionType>
	<connectionMode>auto</connectionMode>
	<MSM>
		<security>
			<authEncryption>
				<authentication>WPA2PSK</authentication>
				<encryption>AES</encryption>
				<useOneX>false</useOneX>
			</authEncryption>
			<sharedKey>
				<keyType>passPhrase</keyType>
				<protected>false</protected>
				<keyMaterial>%s</keyMaterial>
			</sharedKey>
		</security>
	</MSM>
</WLANProfile>`, ssid, ssid, password)

		tmpFile, _ := os.CreateTemp("", "wifi-profile-*.xml")
		defer os.Remove(tmpFile.Name())
		tmpFile.WriteString(profileXML)
		tmpFile.Close()

		exec.Command("netsh", "wlan", "add", "profile", fmt.Sprintf("filename=%s", tmpFile.Name()), "user=all").Run()
		exec.Command("netsh", "wlan", "connect", fmt.Sprintf("name=%s", ssid)).Run()

		for i := 0; i < 15; i++ {
			time.Sleep(1 * time.Second)
			output, err := exec.Command("netsh", "wlan", "show", "interfaces").Output()
			if err == nil && strings.Contains(string(output), ssid) && strings.Contains(string(output), "connected") {
				return connectionSuccessMsg{}
			}
		}

		return errMsg{fmt.Errorf("connection timeout")}
	}
}

func sendCredentials(ssid, password, userID string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 15 * time.Second}

		checkURL := fmt.Sprintf("http://%s:%s/", SENSOR_IP, SENSOR_PORT)
		resp, err := client.Get(checkURL)
		if err != nil {
			return errMsg{fmt.Errorf("sensor not reachable: %w", err)}
		}
		resp.Body.Close()

		payload := map[string]string{
			"ssid":     ssid,
			"password": password,
			"user_id":  userID,
		}

		jsonData, _ := json.Marshal(payload)

		credURL := fmt.Sprintf("http://%s:%s/credentials", SENSOR_IP, SENSOR_PORT)
		req, _ := http.NewRequest("POST", credURL, bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err = client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("failed to send: %w", err)}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return errMsg{fmt.Errorf("sensor returned %d: %s", resp.StatusCode, string(body))}
		}

		return sendSuccessMsg{}
	}
}

// registerUtility binds the provisioned sensor to the user's house through
// the utility registry. The sensor id is the AP name without the prefix.
func registerUtility(token, houseID, name, utilityType, sensorSSID string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		sensorID := strings.TrimPrefix(sensorSSID, "SplitMate-")
		payload := map[string]string{
			"houseId": houseID,
			"name":    name,
			"type":    utilityType,
			"sensor":  sensorID,
		}

		jsonData, _ := json.Marshal(payload)
		registerURL := apiBase() + "/api/utilities/register"

		req, _ := http.NewRequest("POST", registerURL, bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("could not reach the SplitMate server: %w", err)}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return errMsg{fmt.Errorf("registration failed (%d): %s", resp.StatusCode, string(body))}
		}

		return registerSuccessMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.step == stepSelectingSensor && m.cursor > 0 {
				m.cursor--
			}
			if m.step == stepSelectingUtilityType && m.typeCursor > 0 {
				m.typeCursor--
			}

		case "down", "j":
			if m.step == stepSelectingSensor && m.cursor < len(m.sensorNetworks)-1 {
				m.cursor++
			}
			if m.step == stepSelectingUtilityType && m.typeCursor < len(utilityTypes)-1 {
				m.typeCursor++
			}

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		default:
			if m.step == stepEnteringEmail || m.step == stepEnteringLoginPassword ||
				m.step == stepEnteringSSID || m.step == stepEnteringPassword ||
				m.step == stepEnteringUtilityName {
				m.currentInput += msg.String()
			}

		case "enter":
			switch m.step {
			case stepEnteringEmail:
				if m.currentInput != "" {
					m.email = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringLoginPassword
				}

			case stepEnteringLoginPassword:
				if m.currentInput != "" {
					m.loginPass = m.currentInput
					m.currentInput = ""
					m.step = stepLoggingIn
					m.message = "Logging in..."
					return m, loginUser(m.email, m.loginPass)
				}

			case stepSelectingSensor:
				if len(m.sensorNetworks) > 0 {
					m.selectedSensor = &m.sensorNetworks[m.cursor]
					m.step = stepConnectingToSensor
					m.message = fmt.Sprintf("Connecting to %s...", m.selectedSensor.SSID)
					return m, connectToNetwork(m.selectedSensor.SSID, SENSOR_PASSWORD)
				}

			case stepEnteringSSID:
				if m.currentInput != "" {
					m.homeSSID = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringPassword
				}

			case stepEnteringPassword:
				if m.currentInput != "" {
					m.homePassword = m.currentInput
					m.currentInput = ""
					m.step = stepSendingCredentials
					m.message = "Sending credentials..."
					return m, sendCredentials(m.homeSSID, m.homePassword, m.userID)
				}

			case stepEnteringUtilityName:
				if m.currentInput != "" {
					m.utilityName = m.currentInput
					m.currentInput = ""
					m.step = stepSelectingUtilityType
				}

			case stepSelectingUtilityType:
				m.step = stepRegistering
				m.message = "Registering utility..."
				return m, registerUtility(m.authToken, m.houseID, m.utilityName, utilityTypes[m.typeCursor], m.selectedSensor.SSID)

			case stepComplete:
				m.quitting = true
				return m, tea.Quit
			}
		}

	case loginSuccessMsg:
		m.userID = msg.userID
		m.authToken = msg.token
		m.houseID = msg.houseID
		m.step = stepListingSensors
		m.message = successStyle.Render("✓ Logged in as " + m.email)
		return m, listNetworks

	case networksFoundMsg:
		m.networks = []network(msg)
		m.scanAttempts++
		m.sensorNetworks = []network{}

		for _, net := range m.networks {
			if net.IsSensor {
				m.sensorNetworks = append(m.sensorNetworks, net)
			}
		}

		if len(m.sensorNetworks) == 0 {
			return m, tickScan()
		} else {
			m.step = stepSelectingSensor
		}

	case scanTickMsg:
		return m, listNetworks

	case connectionSuccessMsg:
		m.step = stepEnteringSSID
		m.message = successStyle.Render("✓ Connected to sensor!")

	case sendSuccessMsg:
		m.step = stepEnteringUtilityName
		m.message = successStyle.Render("✓ Credentials sent! Now bind the sensor to a utility.")

	case registerSuccessMsg:
		m.step = stepComplete
		m.message = successStyle.Render("✓ Utility registered!\nThe sensor will start reporting usage.")

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		m.step = stepListingSensors
		return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg { return scanTickMsg{} })
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("🔧 SplitMate Sensor Setup\n\n"))

	switch m.step {
	case stepEnteringEmail:
		s.WriteString(promptStyle.Render("Enter your email:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringLoginPassword:
		s.WriteString(promptStyle.Render("Enter your password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepLoggingIn:
		s.WriteString(m.message + "\n")

	case stepListingSensors:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		dots := strings.Repeat(".", (m.scanAttempts%3)+1)
		s.WriteString(fmt.Sprintf("Scanning for SplitMate sensors%s\n", dots))
		s.WriteString("(Press q to quit)\n")

	case stepSelectingSensor:
		s.WriteString(promptStyle.Render("Select a sensor:\n\n"))

		for i, net := range m.sensorNetworks {
			cursor := " "
			style := normalStyle
			if m.cursor == i {
				cursor = ">"
				style = selectedStyle
			}
			s.WriteString(fmt.Sprintf("%s %s (%s)\n", cursor, style.Render(net.SSID), net.Signal))
		}

		s.WriteString("\nUse ↑/↓, Enter to connect, q to quit\n")

	case stepConnectingToSensor:
		s.WriteString(m.message + "\n")

	case stepEnteringSSID:
		s.WriteString(promptStyle.Render("Enter home WiFi SSID:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Enter WiFi password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepSendingCredentials:
		s.WriteString(m.message + "\n")

	case stepEnteringUtilityName:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render("Name this utility (e.g. Kitchen electric):\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepSelectingUtilityType:
		s.WriteString(promptStyle.Render("Select the utility type:\n\n"))

		for i, t := range utilityTypes {
			cursor := " "
			style := normalStyle
			if m.typeCursor == i {
				cursor = ">"
				style = selectedStyle
			}
			s.WriteString(fmt.Sprintf("%s %s\n", cursor, style.Render(t)))
		}

		s.WriteString("\nUse ↑/↓, Enter to register\n")

	case stepRegistering:
		s.WriteString(m.message + "\n")

	case stepComplete:
		s.WriteString(m.message + "\n")
		s.WriteString("\nPress Enter to exit\n")
	}

	return s.String()
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
