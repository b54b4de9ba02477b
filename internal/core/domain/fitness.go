package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gookit/validate"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrFoodItemNotFound = errors.New("food item not found")
	ErrInvalidMealType  = errors.New("invalid meal type (must be Breakfast, Lunch, Dinner or Snacks)")
	ErrInvalidDate      = errors.New("invalid date (expected YYYY-MM-DD)")
)

const DateLayout = "2006-01-02"

type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnacks    MealType = "Snacks"
)

// MealTypes is the display order of meals within a day.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnacks}

func ParseMealType(s string) (MealType, error) {
	for _, m := range MealTypes {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", ErrInvalidMealType
}

type ExerciseSet struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

type Exercise struct {
	ID   string        `json:"id"`
	Name string        `json:"name"`
	Sets []ExerciseSet `json:"sets"`
}

type Workout struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	Exercises []Exercise `json:"exercises"`
}

// Validate checks the parts of a workout the API accepts from clients. The
// date must be an RFC 3339 timestamp or a plain calendar date.
func (w *Workout) Validate() error {
	if _, _, ok := ParseDateLike(w.Date); !ok {
		return fmt.Errorf("%w: workout date %q is not a valid date", ErrValidation, w.Date)
	}
	if len(w.Exercises) == 0 {
		return fmt.Errorf("%w: workout needs at least one exercise", ErrValidation)
	}
	for _, ex := range w.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			return fmt.Errorf("%w: exercise name cannot be empty", ErrValidation)
		}
		for _, s := range ex.Sets {
			if s.Reps < 0 || s.Weight < 0 {
				return fmt.Errorf("%w: sets cannot have negative reps or weight", ErrValidation)
			}
		}
	}
	return nil
}

// Clone returns a deep copy so callers can edit it without touching stored state.
func (w Workout) Clone() Workout {
	out := w
	out.Exercises = make([]Exercise, len(w.Exercises))
	for i, ex := range w.Exercises {
		out.Exercises[i] = ex
		out.Exercises[i].Sets = append([]ExerciseSet(nil), ex.Sets...)
	}
	return out
}

func (w Workout) TotalSets() int {
	n := 0
	for _, ex := range w.Exercises {
		n += len(ex.Sets)
	}
	return n
}

// Volume is the sum of reps × weight across every set.
func (w Workout) Volume() float64 {
	var v float64
	for _, ex := range w.Exercises {
		for _, s := range ex.Sets {
			v += float64(s.Reps) * s.Weight
		}
	}
	return v
}

// WorkoutSummary is a workout as the API returns it, with its totals.
type WorkoutSummary struct {
	Workout
	TotalSets   int     `json:"total_sets"`
	TotalVolume float64 `json:"total_volume"`
}

func (w Workout) Summarize() WorkoutSummary {
	return WorkoutSummary{
		Workout:     w,
		TotalSets:   w.TotalSets(),
		TotalVolume: w.Volume(),
	}
}

type FoodItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func (f *FoodItem) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: food item name cannot be empty", ErrValidation)
	}
	if f.Calories < 0 || f.Protein < 0 || f.Carbs < 0 || f.Fat < 0 {
		return fmt.Errorf("%w: nutrient values cannot be negative", ErrValidation)
	}
	return nil
}

type Meal struct {
	ID    string     `json:"id"`
	Name  MealType   `json:"name"`
	Items []FoodItem `json:"items"`
}

type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type DailyLog struct {
	Date        string `json:"date"`
	Meals       []Meal `json:"meals"`
	WaterIntake *int   `json:"waterIntake,omitempty"`
}

func (l DailyLog) TotalCalories() float64 {
	var total float64
	for _, m := range l.Meals {
		for _, item := range m.Items {
			total += item.Calories
		}
	}
	return total
}

func (l DailyLog) Totals() Macros {
	var t Macros
	for _, m := range l.Meals {
		for _, item := range m.Items {
			t.Calories += item.Calories
			t.Protein += item.Protein
			t.Carbs += item.Carbs
			t.Fat += item.Fat
		}
	}
	return t
}

// Water returns the logged intake in ml, treating an absent value as zero.
func (l DailyLog) Water() int {
	if l.WaterIntake == nil {
		return 0
	}
	return *l.WaterIntake
}

func (l DailyLog) Clone() DailyLog {
	out := l
	out.Meals = make([]Meal, len(l.Meals))
	for i, m := range l.Meals {
		out.Meals[i] = m
		out.Meals[i].Items = append([]FoodItem(nil), m.Items...)
	}
	if l.WaterIntake != nil {
		w := *l.WaterIntake
		out.WaterIntake = &w
	}
	return out
}

type NutritionGoals struct {
	Calories  int `json:"calories" validate:"min:0"`
	Protein   int `json:"protein" validate:"min:0"`
	Carbs     int `json:"carbs" validate:"min:0"`
	Fat       int `json:"fat" validate:"min:0"`
	WaterGoal int `json:"waterGoal" validate:"min:0"`
}

func DefaultNutritionGoals() NutritionGoals {
	return NutritionGoals{
		Calories:  2000,
		Protein:   150,
		Carbs:     250,
		Fat:       60,
		WaterGoal: 3000,
	}
}

func (g *NutritionGoals) Validate() error {
	v := validate.Struct(g)
	if !v.Validate() {
		return fmt.Errorf("%w: %s", ErrValidation, v.Errors.One())
	}
	return nil
}

// ParseDay parses a strict YYYY-MM-DD calendar date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ZonelessLayouts are the timestamp shapes accepted without a zone offset.
var ZonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseDateLike accepts an ISO-8601 timestamp or a plain calendar date. The
// second result reports whether the input carried a zone offset; zoneless
// input is returned as a UTC wall clock.
func ParseDateLike(s string) (time.Time, bool, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true, true
	}
	for _, layout := range ZonelessLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false, true
		}
	}
	return time.Time{}, false, false
}
