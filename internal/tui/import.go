package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"salescockpit/internal/config"
	"salescockpit/internal/database"
	"salescockpit/internal/importer"
	"salescockpit/internal/mapping"
	"salescockpit/internal/models"
	"salescockpit/internal/parser"
)

type ImportModel struct {
	cfg   config.Config
	state ImportState

	csvFileInput textinput.Model
	typeCursor   int

	records  []models.SourceRecord
	warnings []parser.Warning

	// mapping review
	colMapping  mapping.ColumnMapping
	mapCursor   int
	editing     bool
	columnInput textinput.Model

	spinner   spinner.Model
	result    *importer.Result
	resultErr error

	files        []string
	selectedFile int
	width        int
	height       int
}

type ImportState int

const (
	ImportInputState ImportState = iota
	ImportFileSelectState
	ImportMappingState
	ImportProgressState
	ImportResultState
)

type ImportCompleteMsg struct {
	Result *importer.Result
	Err    error
}

func NewImportModel(cfg config.Config) *ImportModel {
	csvInput := textinput.New()
	csvInput.Placeholder = "path/to/export.csv"
	csvInput.Focus()

	columnInput := textinput.New()
	columnInput.Placeholder = "column name (empty clears)"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aadd"))

	return &ImportModel{
		cfg:          cfg,
		state:        ImportInputState,
		csvFileInput: csvInput,
		columnInput:  columnInput,
		spinner:      sp,
	}
}

func (m *ImportModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ImportModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case ImportInputState:
			return m.updateInputState(msg)
		case ImportFileSelectState:
			return m.updateFileSelectState(msg)
		case ImportMappingState:
			return m.updateMappingState(msg)
		case ImportProgressState:
			return m, nil
		case ImportResultState:
			if msg.String() == "enter" || msg.String() == " " {
				m.reset()
				return m, nil
			}
		}

	case spinner.TickMsg:
		if m.state == ImportProgressState {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case ImportCompleteMsg:
		m.result = msg.Result
		m.resultErr = msg.Err
		m.state = ImportResultState
		return m, nil
	}

	return m, nil
}

func (m *ImportModel) dataType() models.DataTypeDescriptor {
	return models.DataTypes[m.typeCursor]
}

func (m *ImportModel) updateInputState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "left", "shift+tab":
		m.typeCursor = (m.typeCursor - 1 + len(models.DataTypes)) % len(models.DataTypes)
		return m, nil
	case "right", "tab":
		m.typeCursor = (m.typeCursor + 1) % len(models.DataTypes)
		return m, nil
	case "ctrl+f":
		return m.browseFiles()
	case "enter":
		if strings.TrimSpace(m.csvFileInput.Value()) != "" {
			return m.parseFile()
		}
		return m, nil
	}

	m.csvFileInput, cmd = m.csvFileInput.Update(msg)
	return m, cmd
}

func (m *ImportModel) updateFileSelectState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedFile > 0 {
			m.selectedFile--
		}
	case "down", "j":
		if m.selectedFile < len(m.files)-1 {
			m.selectedFile++
		}
	case "enter":
		if len(m.files) > 0 {
			m.csvFileInput.SetValue(m.files[m.selectedFile])
			m.state = ImportInputState
		}
	case "esc":
		m.state = ImportInputState
	}
	return m, nil
}

func (m *ImportModel) updateMappingState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		var cmd tea.Cmd
		switch msg.String() {
		case "enter":
			field := m.dataType().Fields[m.mapCursor]
			col := strings.TrimSpace(m.columnInput.Value())
			if col == "" {
				delete(m.colMapping, field)
			} else {
				m.colMapping[field] = col
			}
			m.editing = false
			return m, nil
		case "esc":
			m.editing = false
			return m, nil
		}
		m.columnInput, cmd = m.columnInput.Update(msg)
		return m, cmd
	}

	fields := m.dataType().Fields
	switch msg.String() {
	case "up", "k":
		if m.mapCursor > 0 {
			m.mapCursor--
		}
	case "down", "j":
		if m.mapCursor < len(fields)-1 {
			m.mapCursor++
		}
	case "e", " ":
		m.editing = true
		m.columnInput.SetValue(m.colMapping[fields[m.mapCursor]])
		m.columnInput.Focus()
		return m, textinput.Blink
	case "enter":
		return m.startImport()
	}
	return m, nil
}

func (m *ImportModel) browseFiles() (tea.Model, tea.Cmd) {
	cwd, _ := os.Getwd()
	files, err := filepath.Glob(filepath.Join(cwd, "*.csv"))
	if err != nil {
		return m, ShowError(err)
	}

	for i, file := range files {
		rel, _ := filepath.Rel(cwd, file)
		files[i] = rel
	}

	m.files = files
	m.selectedFile = 0
	m.state = ImportFileSelectState
	return m, nil
}

// parseFile reads the selected file and proposes a column mapping for the
// operator to review before anything touches the database.
func (m *ImportModel) parseFile() (tea.Model, tea.Cmd) {
	data, err := os.ReadFile(strings.TrimSpace(m.csvFileInput.Value()))
	if err != nil {
		return m, ShowError(fmt.Errorf("failed to read CSV file: %w", err))
	}
	parsed, err := parser.Parse(data)
	if err != nil {
		return m, ShowError(fmt.Errorf("failed to parse CSV: %w", err))
	}

	m.records = parsed.Records
	m.warnings = parsed.Warnings
	m.colMapping = importer.AutoMap(m.dataType(), parsed.Columns)
	m.mapCursor = 0
	m.state = ImportMappingState
	return m, nil
}

func (m *ImportModel) startImport() (tea.Model, tea.Cmd) {
	if err := mapping.Validate(m.colMapping, m.dataType()); err != nil {
		return m, ShowError(err)
	}
	m.state = ImportProgressState
	return m, tea.Batch(m.spinner.Tick, m.performImport())
}

func (m *ImportModel) performImport() tea.Cmd {
	dt := m.dataType()
	colMapping := m.colMapping
	records := m.records
	cfg := m.cfg

	return func() tea.Msg {
		db, err := database.NewMongoDB(cfg.DBURI, cfg.DBName)
		if err != nil {
			return ImportCompleteMsg{Err: fmt.Errorf("failed to connect to MongoDB: %w", err)}
		}
		defer db.Close()

		svc := importer.NewService(db, nil)
		result, err := svc.Run(context.Background(), records, importer.Options{
			DataType: dt,
			Mapping:  colMapping,
			Actor:    cfg.Actor,
			Tenant:   cfg.Tenant,
		})
		return ImportCompleteMsg{Result: result, Err: err}
	}
}

func (m *ImportModel) reset() {
	m.state = ImportInputState
	m.result = nil
	m.resultErr = nil
	m.records = nil
	m.warnings = nil
	m.colMapping = nil
	m.csvFileInput.SetValue("")
	m.csvFileInput.Focus()
}

func (m *ImportModel) View() string {
	switch m.state {
	case ImportInputState:
		return m.renderInputForm()
	case ImportFileSelectState:
		return m.renderFileSelector()
	case ImportMappingState:
		return m.renderMappingReview()
	case ImportProgressState:
		return m.renderProgress()
	case ImportResultState:
		return m.renderResult()
	}
	return ""
}

func (m *ImportModel) renderInputForm() string {
	adaptiveTitleStyle, adaptiveFormStyle, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("📥 Import CSV export")

	dt := m.dataType()
	form := adaptiveFormStyle.Render(
		labelStyle.Render("CSV File:") + "\n" + m.csvFileInput.View() + "\n\n" +
			labelStyle.Render("Data type:") + " " +
			selectedMenuItemStyle.Render(fmt.Sprintf(" %s (%s) ", dt.Title, dt.ID)),
	)

	help := adaptiveHelpStyle.Render("Tab: Cycle data type • Ctrl+F: Browse files • Enter: Parse file • Esc: Back to menu")

	content := lipgloss.JoinVertical(lipgloss.Left, title, form, help)

	if m.width > 0 && m.height > 0 {
		content = lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Top,
			content,
		)
	}

	return content
}

func (m *ImportModel) renderFileSelector() string {
	title := titleStyle.Render("📁 Select CSV File")

	if len(m.files) == 0 {
		content := warningStyle.Render("No CSV files found in current directory")
		help := helpStyle.Render("Esc: Back to form")
		return lipgloss.JoinVertical(lipgloss.Left, title, content, help)
	}

	var fileList string
	for i, file := range m.files {
		cursor := " "
		style := menuItemStyle
		if i == m.selectedFile {
			cursor = ">"
			style = selectedMenuItemStyle
		}
		fileList += fmt.Sprintf("%s %s\n", cursor, style.Render(file))
	}

	help := helpStyle.Render("↑/↓: Navigate • Enter: Select • Esc: Cancel")

	return lipgloss.JoinVertical(lipgloss.Left, title, fileList, help)
}

func (m *ImportModel) renderMappingReview() string {
	adaptiveTitleStyle, adaptiveFormStyle, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	dt := m.dataType()
	title := adaptiveTitleStyle.Render(fmt.Sprintf("🔗 Column mapping — %s (%d rows)", dt.Title, len(m.records)))

	var rows string
	for i, field := range dt.Fields {
		cursor := " "
		style := menuItemStyle
		if i == m.mapCursor {
			cursor = ">"
			style = selectedMenuItemStyle
		}
		col := m.colMapping[field]
		if col == "" {
			col = warningStyle.Render("(unmapped)")
		}
		required := " "
		if contains(dt.Required, field) {
			required = "*"
		}
		rows += fmt.Sprintf("%s %s%s ← %s\n", cursor, style.Render(field), required, col)
	}

	var editor string
	if m.editing {
		editor = "\n" + labelStyle.Render("Column:") + " " + m.columnInput.View()
	}

	var warn string
	if n := len(m.warnings); n > 0 {
		warn = "\n" + warningStyle.Render(fmt.Sprintf("%d parser warning(s) in this file", n))
	}

	form := adaptiveFormStyle.Render(rows + editor + warn)
	help := adaptiveHelpStyle.Render("↑/↓: Navigate • e: Edit assignment • Enter: Start import • Esc: Back to menu")

	return lipgloss.JoinVertical(lipgloss.Left, title, form, help)
}

func (m *ImportModel) renderProgress() string {
	adaptiveTitleStyle, _, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("📥 Importing...")

	content := progressStyle.Render(m.spinner.View() + " Applying batch")
	help := adaptiveHelpStyle.Render("Please wait while the batch is being applied...")

	result := lipgloss.JoinVertical(lipgloss.Left, title, content, help)

	if m.width > 0 && m.height > 0 {
		result = lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			result,
		)
	}

	return result
}

func (m *ImportModel) renderResult() string {
	title := titleStyle.Render("📥 Import Complete")

	var status string
	if m.resultErr != nil {
		status = errorStyle.Render(fmt.Sprintf("❌ Import failed: %v", m.resultErr))
	} else {
		status = successStyle.Render("✅ Batch applied")
	}

	var stats string
	if m.result != nil {
		stats = fmt.Sprintf(
			"📊 Batch %s:\n"+
				"   Total rows: %d\n"+
				"   Inserted: %d\n"+
				"   Updated: %d\n"+
				"   Update failures: %d",
			m.result.BatchID,
			m.result.Total,
			m.result.Inserted,
			m.result.Updated,
			len(m.result.UpdateErrors),
		)
	}

	help := helpStyle.Render("Enter: Import another file • Esc: Back to menu")

	return lipgloss.JoinVertical(lipgloss.Left, title, status, stats, help)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
