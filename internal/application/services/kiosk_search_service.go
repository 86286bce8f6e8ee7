package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/smileops/dentaldesk/internal/domain/entities"
	"github.com/smileops/dentaldesk/internal/domain/repositories"
	apperrors "github.com/smileops/dentaldesk/pkg/errors"
)

// Structured error codes the kiosk search endpoint returns in place of
// results.
const (
	KioskErrDOBInvalid    = "dob_invalid"
	KioskErrPhoneShort    = "phone_short"
	KioskErrDBUnavailable = "db_unavailable"
)

// Query modes, in the priority order the kiosk client selects them.
const (
	SearchModeLastName = "lastname"
	SearchModeDOB      = "dob"
	SearchModePhone    = "phone"
)

const minPhoneDigits = 7

// procedureLabels maps Open Dental procedure code fragments to plain English,
// checked in order so longer codes win over their prefixes.
var procedureLabels = []struct {
	code  string
	label string
}{
	{"ImpCrPrep", "Implant Crown Prep"},
	{"ImpCr", "Implant Crown"},
	{"PFMSeat", "Crown Placement"},
	{"PFMPrep", "Crown Preparation"},
	{"PFM", "Crown"},
	{"SRPMaxSext", "Deep Cleaning"},
	{"SRPMandSext", "Deep Cleaning"},
	{"SRP", "Deep Cleaning"},
	{"RCT", "Root Canal"},
	{"Perio", "Gum Treatment"},
	{"BWX", "X-Rays"},
	{"FMX", "Full X-Rays"},
	{"PA", "X-Ray"},
	{"CompF", "Filling"},
	{"CompA", "Filling"},
	{"Comp", "Filling"},
	{"Ext", "Extraction"},
	{"Pre-fab", "Post Placement"},
	{"Core", "Build-Up"},
	{"Seat", "Crown Seating"},
	{"Post", "Post Placement"},
	{"Pro", "Cleaning"},
	{"Ex", "Exam"},
	{"Bl", "Whitening"},
	{"Ven", "Veneer"},
}

const fallbackProcedure = "Dental Visit"

// nonPersonTokens mark provider last names that are really organizations.
var nonPersonTokens = []string{"PC", "LLC", "INC", "GROUP", "DENTAL", "ASSOCIATES", "CARE"}

// KioskSearchService resolves a patient self-lookup against today's schedule.
type KioskSearchService struct {
	repo repositories.AppointmentRepository
	now  func() time.Time
}

// NewKioskSearchService creates a new kiosk search service
func NewKioskSearchService(repo repositories.AppointmentRepository) *KioskSearchService {
	return &KioskSearchService{
		repo: repo,
		now:  time.Now,
	}
}

// SearchQuery is one kiosk lookup: exactly one field should be set.
type SearchQuery struct {
	LastName string
	DOB      string // MM/DD/YYYY
	Phone    string // digits, possibly formatted
}

// Mode returns the query mode by fixed priority: last name, DOB, phone.
func (q SearchQuery) Mode() string {
	switch {
	case q.LastName != "":
		return SearchModeLastName
	case q.DOB != "":
		return SearchModeDOB
	default:
		return SearchModePhone
	}
}

// Search returns patient-safe matches for today's appointments. Validation
// failures return AppErrors carrying the structured kiosk error codes.
func (s *KioskSearchService) Search(ctx context.Context, query SearchQuery) ([]*entities.AppointmentMatch, error) {
	if query.LastName == "" && query.DOB == "" && query.Phone == "" {
		return nil, apperrors.NewValidationError("provide q, dob, or phone")
	}

	var dobDate time.Time
	var phoneDigits string

	switch query.Mode() {
	case SearchModeDOB:
		parsed, err := time.Parse("01/02/2006", query.DOB)
		if err != nil {
			return nil, apperrors.NewValidationError(KioskErrDOBInvalid)
		}
		dobDate = parsed
	case SearchModePhone:
		phoneDigits = onlyDigits(query.Phone)
		if len(phoneDigits) < minPhoneDigits {
			return nil, apperrors.NewValidationError(KioskErrPhoneShort)
		}
	}

	today := s.now()
	appointments, err := s.repo.ListForDate(ctx, today)
	if err != nil {
		return nil, apperrors.NewInternalError(KioskErrDBUnavailable, err)
	}

	var matches []*entities.Appointment
	switch query.Mode() {
	case SearchModeLastName:
		prefix := strings.ToLower(query.LastName)
		for _, apt := range appointments {
			if strings.HasPrefix(strings.ToLower(apt.PatLName), prefix) {
				matches = append(matches, apt)
			}
		}
	case SearchModeDOB:
		for _, apt := range appointments {
			if !apt.HasValidBirthdate() {
				continue
			}
			bd := apt.Birthdate
			if bd.Year() == dobDate.Year() && bd.Month() == dobDate.Month() && bd.Day() == dobDate.Day() {
				matches = append(matches, apt)
			}
		}
	case SearchModePhone:
		for _, apt := range appointments {
			if strings.HasSuffix(onlyDigits(apt.WirelessPhone), phoneDigits) ||
				strings.HasSuffix(onlyDigits(apt.HmPhone), phoneDigits) {
				matches = append(matches, apt)
			}
		}
	}

	lastVisits := s.lastVisitsFor(ctx, matches)

	// Endpoint order follows the schedule query ordering and is preserved.
	results := make([]*entities.AppointmentMatch, 0, len(matches))
	for _, apt := range matches {
		results = append(results, safeMatch(apt, lastVisits))
	}

	return results, nil
}

// lastVisitsFor fetches last completed visits, degrading gracefully: a failed
// lookup means every match renders as a first visit rather than an error.
func (s *KioskSearchService) lastVisitsFor(ctx context.Context, matches []*entities.Appointment) map[int64]time.Time {
	seen := make(map[int64]struct{}, len(matches))
	patNums := make([]int64, 0, len(matches))
	for _, apt := range matches {
		if _, ok := seen[apt.PatNum]; ok {
			continue
		}
		seen[apt.PatNum] = struct{}{}
		patNums = append(patNums, apt.PatNum)
	}

	lastVisits, err := s.repo.LastVisits(ctx, patNums)
	if err != nil {
		log.Warn().Err(err).Msg("kiosk search: last visit lookup failed, degrading to first-visit display")
		return map[int64]time.Time{}
	}
	return lastVisits
}

// PhotoFileName returns the stored photo file name for a patient, or empty.
func (s *KioskSearchService) PhotoFileName(ctx context.Context, patNum int64) (string, error) {
	return s.repo.PatientPhotoFile(ctx, patNum)
}

func safeMatch(apt *entities.Appointment, lastVisits map[int64]time.Time) *entities.AppointmentMatch {
	match := &entities.AppointmentMatch{
		PatNum:    apt.PatNum,
		FirstName: apt.PatFName,
		LastName:  apt.PatLName,
		Time:      apt.TimeDisplay(),
		Provider:  providerDisplayName(apt),
		Room:      apt.OperatoryName,
		Procedure: SimplifyProcedure(apt.ProcDescript),
	}
	if visit, ok := lastVisits[apt.PatNum]; ok {
		match.LastVisit = visit.Format("January 2, 2006")
	}
	return match
}

// SimplifyProcedure converts a raw ProcDescript like "#3-PFMPrep, BWX" into
// plain English ("Crown Preparation, X-Rays"), collapsing duplicates.
func SimplifyProcedure(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return fallbackProcedure
	}

	seen := make(map[string]struct{})
	var labels []string
	for _, part := range strings.Split(raw, ",") {
		code := strings.TrimLeft(strings.TrimSpace(part), "#")
		if idx := strings.Index(code, "-"); idx >= 0 {
			code = code[idx+1:]
		}

		label := fallbackProcedure
		lower := strings.ToLower(code)
		for _, entry := range procedureLabels {
			if strings.Contains(lower, strings.ToLower(entry.code)) {
				label = entry.label
				break
			}
		}

		if _, ok := seen[label]; !ok {
			seen[label] = struct{}{}
			labels = append(labels, label)
		}
	}

	if len(labels) == 0 {
		return fallbackProcedure
	}
	return strings.Join(labels, ", ")
}

// providerDisplayName renders "Dr. First Last" for real people, the provider
// abbreviation when it already reads like "Dr...." and a neutral fallback for
// organization rows.
func providerDisplayName(apt *entities.Appointment) string {
	fname := strings.TrimSpace(apt.ProvFName)
	lname := strings.TrimSpace(apt.ProvLName)
	abbr := strings.TrimSpace(apt.ProvAbbr)

	if fname != "" && lname != "" && !looksLikeOrganization(lname) {
		return "Dr. " + fname + " " + lname
	}
	if strings.HasPrefix(strings.ToLower(abbr), "dr") {
		return abbr
	}
	return "our dental team"
}

func looksLikeOrganization(lastName string) bool {
	upper := strings.ToUpper(lastName)
	for _, token := range nonPersonTokens {
		if strings.Contains(upper, token) {
			return true
		}
	}
	return false
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
