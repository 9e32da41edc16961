package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"parc-info/internal/dto"
	"parc-info/internal/entities"
	"parc-info/internal/repositories"
	apperrors "parc-info/pkg/errors"
	"parc-info/pkg/utils"
)

// exportHeaders is also the set of header names the importer recognizes,
// so a previously exported file re-imports as-is.
var exportHeaders = []string{
	"SN", "Code", "Date mise en service", "Designation", "Description",
	"Prix HT", "Fournisseur", "Facture", "Operationnel", "En reparation",
	"Reforme", "Observations", "Public", "Personne affectation", "Disponibilite",
}

type MaterielImportServiceInterface interface {
	ImportFromExcel(ctx context.Context, r io.Reader) (*dto.ImportReportDTO, error)
	ExportToExcel(ctx context.Context) (*excelize.File, error)
}

type MaterielImportService struct {
	materielRepo repositories.MaterielRepositoryInterface
	logger       *zap.Logger
}

func NewMaterielImportService(materielRepo repositories.MaterielRepositoryInterface, logger *zap.Logger) MaterielImportServiceInterface {
	return &MaterielImportService{materielRepo: materielRepo, logger: logger}
}

// columnIndexes maps the columns we care about to their position in the
// header row. -1 means the column is absent. Assignment and availability
// come from the assignment workflow, never from a spreadsheet; their
// columns are recognized only so the report can flag them as ignored.
type columnIndexes struct {
	sn, code, date, designation, description    int
	prixHT, fournisseur, facture, operationnel  int
	enReparation, reforme, observations, public int
	assignee, disponibilite                     int
}

func newColumnIndexes() columnIndexes {
	return columnIndexes{
		sn: -1, code: -1, date: -1, designation: -1, description: -1,
		prixHT: -1, fournisseur: -1, facture: -1, operationnel: -1,
		enReparation: -1, reforme: -1, observations: -1, public: -1,
		assignee: -1, disponibilite: -1,
	}
}

// ImportFromExcel walks every sheet looking for a header row that names at
// least SN, Code and Designation, then upserts each data row by SN. One bad
// row lands in the report and never aborts the batch.
func (s *MaterielImportService) ImportFromExcel(ctx context.Context, r io.Reader) (*dto.ImportReportDTO, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("not a readable xlsx file: %s", err.Error())
	}
	defer f.Close()

	var dataRows [][]string
	cols := newColumnIndexes()
	headerRow := -1

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for rIdx, row := range rows {
			candidate := newColumnIndexes()
			for cIdx, colName := range row {
				switch normalizeHeader(colName) {
				case "sn", "serial", "numero de serie":
					candidate.sn = cIdx
				case "code":
					candidate.code = cIdx
				case "date mise en service", "date":
					candidate.date = cIdx
				case "designation":
					candidate.designation = cIdx
				case "description":
					candidate.description = cIdx
				case "prix ht", "prix":
					candidate.prixHT = cIdx
				case "fournisseur":
					candidate.fournisseur = cIdx
				case "facture":
					candidate.facture = cIdx
				case "operationnel":
					candidate.operationnel = cIdx
				case "en reparation":
					candidate.enReparation = cIdx
				case "reforme":
					candidate.reforme = cIdx
				case "observations":
					candidate.observations = cIdx
				case "public":
					candidate.public = cIdx
				case "personne affectation":
					candidate.assignee = cIdx
				case "disponibilite":
					candidate.disponibilite = cIdx
				}
			}
			if candidate.sn != -1 && candidate.code != -1 && candidate.designation != -1 {
				cols = candidate
				headerRow = rIdx
				dataRows = rows
				break
			}
		}
		if headerRow != -1 {
			break
		}
	}

	if headerRow == -1 {
		return nil, apperrors.NewInvalidInputError("no header row found: the file needs at least SN, Code and Designation columns")
	}

	report := &dto.ImportReportDTO{}
	if cols.assignee != -1 {
		report.IgnoredColumns = append(report.IgnoredColumns, "Personne affectation")
	}
	if cols.disponibilite != -1 {
		report.IgnoredColumns = append(report.IgnoredColumns, "Disponibilite")
	}
	for i := headerRow + 1; i < len(dataRows); i++ {
		row := dataRows[i]
		lineNum := i + 1

		sn := cellAt(row, cols.sn)
		if sn == "" {
			continue
		}

		materiel, err := s.rowToMateriel(row, cols)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d (%s): %v", lineNum, sn, err))
			continue
		}

		inserted, err := s.materielRepo.UpsertMateriel(ctx, materiel)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d (%s): %v", lineNum, sn, err))
			continue
		}
		if inserted {
			report.Inserted++
		} else {
			report.Updated++
		}
	}

	s.logger.Info("materiel import finished",
		zap.Int("inserted", report.Inserted),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *MaterielImportService) rowToMateriel(row []string, cols columnIndexes) (*entities.Materiel, error) {
	materiel := &entities.Materiel{
		SN:           cellAt(row, cols.sn),
		Code:         cellAt(row, cols.code),
		Designation:  cellAt(row, cols.designation),
		Description:  cellAt(row, cols.description),
		Fournisseur:  cellAt(row, cols.fournisseur),
		Facture:      cellAt(row, cols.facture),
		EnReparation: cellAt(row, cols.enReparation),
		Reforme:      cellAt(row, cols.reforme),
		Observations: cellAt(row, cols.observations),
		Operationnel: true,
		Public:       true,
	}

	if materiel.Code == "" {
		return nil, fmt.Errorf("missing code")
	}
	if materiel.Designation == "" {
		return nil, fmt.Errorf("missing designation")
	}
	if materiel.Facture == "" {
		materiel.Facture = "-"
	}

	rawDate := cellAt(row, cols.date)
	if rawDate == "" {
		return nil, fmt.Errorf("missing date mise en service")
	}
	parsed, err := utils.ParseDate(rawDate)
	if err != nil {
		return nil, err
	}
	materiel.DateMiseEnService = parsed

	if raw := cellAt(row, cols.prixHT); raw != "" {
		price, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid prix HT %q", raw)
		}
		materiel.PrixHT = &price
	}

	if raw := cellAt(row, cols.operationnel); raw != "" {
		materiel.Operationnel = parseFlag(raw)
	}
	if raw := cellAt(row, cols.public); raw != "" {
		materiel.Public = parseFlag(raw)
	}

	return materiel, nil
}

// ExportToExcel renders the full inventory, one materiel per row, with the
// same headers the importer understands.
func (s *MaterielImportService) ExportToExcel(ctx context.Context) (*excelize.File, error) {
	materiels, err := s.materielRepo.GetMateriels(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		f.Close()
		return nil, err
	}

	for i, m := range materiels {
		prix := ""
		if m.PrixHT != nil {
			prix = strconv.FormatFloat(*m.PrixHT, 'f', 2, 64)
		}
		assignee := ""
		if m.PersonneAffectation != nil {
			assignee = *m.PersonneAffectation
		}
		row := []interface{}{
			m.SN, m.Code, m.DateMiseEnService.Format("2006-01-02"), m.Designation,
			m.Description, prix, m.Fournisseur, m.Facture, formatFlag(m.Operationnel),
			m.EnReparation, m.Reforme, m.Observations, formatFlag(m.Public),
			assignee, formatFlag(m.Disponibilite),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeHeader folds case, accents and underscores so "Désignation",
// "designation" and "DESIGNATION " all match.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	replacer := strings.NewReplacer(
		"é", "e", "è", "e", "ê", "e", "à", "a", "ç", "c",
		"_", " ", "-", " ",
	)
	h = replacer.Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "oui", "yes", "true", "vrai", "1":
		return true
	default:
		return false
	}
}

func formatFlag(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}
