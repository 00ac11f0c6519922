package ingest

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/classbuilder/timetable/internal/domain"
)

// registry dedupes teachers/subjects/groups created across rows of
// one import so the same name always maps to the same ID.
type registry struct {
	teachers map[string]domain.Teacher
	subjects map[string]domain.Subject
	groups   map[string]domain.StudentGroup
}

func newRegistry() *registry {
	return &registry{
		teachers: make(map[string]domain.Teacher),
		subjects: make(map[string]domain.Subject),
		groups:   make(map[string]domain.StudentGroup),
	}
}

func (r *registry) teacher(name string) domain.Teacher {
	if t, ok := r.teachers[name]; ok {
		return t
	}
	t := domain.Teacher{ID: uuid.NewString(), Name: name}
	r.teachers[name] = t
	return t
}

// vacancy mints a sentinel teacher for a subject with no named
// instructor, matching original_source's "Вакансия (<subject>)"
// naming and is_vacancy=True, max_hours=999 (kept here as MaxHours so
// the over-hours diagnostic never fires for vacancies, which have no
// real person to overwork).
func (r *registry) vacancy(subject string) domain.Teacher {
	name := fmt.Sprintf("Вакансия (%s)", subject)
	if t, ok := r.teachers[name]; ok {
		return t
	}
	t := domain.Teacher{ID: uuid.NewString(), Name: name, IsVacancy: true, MaxHours: 999}
	r.teachers[name] = t
	return t
}

func (r *registry) subject(name string) domain.Subject {
	if s, ok := r.subjects[name]; ok {
		return s
	}
	s := domain.Subject{ID: uuid.NewString(), Name: name}
	r.subjects[name] = s
	return s
}

func (r *registry) group(name string, shift domain.Shift) domain.StudentGroup {
	if g, ok := r.groups[name]; ok {
		return g
	}
	g := domain.StudentGroup{ID: uuid.NewString(), Name: name, Shift: shift}
	r.groups[name] = g
	return g
}

// ImportWorkload reads a CSV or XLSX file of workloads. Recognized
// columns (case-insensitive): teacher, subject, class, hours,
// maxhours, subgroup, shift, roomtype. An empty or literal "auto"
// teacher cell creates a vacancy teacher for that subject, matching
// original_source/src/utils/importer.py::import_data_from_file.
func ImportWorkload(path string) ([]domain.Workload, error) {
	header, rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	teacherCol := columnIndex(header, "teacher", "учитель")
	subjectCol := columnIndex(header, "subject", "предмет")
	classCol := columnIndex(header, "class", "класс")
	hoursCol := columnIndex(header, "hours", "часы")
	maxHoursCol := columnIndex(header, "maxhours", "max_hours")
	subgroupCol := columnIndex(header, "subgroup", "подгруппа")
	shiftCol := columnIndex(header, "shift", "смена")
	roomTypeCol := columnIndex(header, "roomtype", "room_type")

	reg := newRegistry()
	var out []domain.Workload
	for _, row := range rows {
		subjectName := cell(row, subjectCol)
		if subjectName == "" {
			subjectName = "General"
		}
		className := cell(row, classCol)
		if className == "" {
			className = "1-A"
		}
		shift := domain.ShiftMorning
		if cellInt(row, shiftCol, 1) == 2 {
			shift = domain.ShiftAfternoon
		}

		teacherName := cell(row, teacherCol)
		var teacher domain.Teacher
		if isAuto(teacherName) {
			teacher = reg.vacancy(subjectName)
		} else {
			teacher = reg.teacher(teacherName)
		}
		if maxHours := cellInt(row, maxHoursCol, 0); maxHours > 0 {
			teacher.MaxHours = maxHours
			reg.teachers[teacher.Name] = teacher
		}

		out = append(out, domain.Workload{
			ID:           uuid.NewString(),
			Teacher:      teacher,
			Subject:      reg.subject(subjectName),
			Group:        reg.group(className, shift),
			Subgroup:     classifySubgroup(cell(row, subgroupCol)),
			HoursPerWeek: cellInt(row, hoursCol, 1),
			RequiredRoom: classifyRoomType(cell(row, roomTypeCol)),
		})
	}
	return out, nil
}

func isAuto(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "auto", "nan", "none":
		return true
	default:
		return false
	}
}

func classifySubgroup(raw string) domain.Subgroup {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "boy"):
		return domain.Boys
	case strings.Contains(s, "girl"):
		return domain.Girls
	case strings.Contains(s, "1"):
		return domain.Group1
	case strings.Contains(s, "2"):
		return domain.Group2
	default:
		return domain.WholeClass
	}
}
