package services

import "github.com/saeid-a/FlashFitBack/internal/repository"

func equipment(name string) *string {
	return &name
}

var seedExercises = []repository.CreateExerciseInput{
	{Name: "Barbell Bench Press", MuscleGroup: "chest", MovementType: "push", Equipment: equipment("barbell")},
	{Name: "Dumbbell Bench Press", MuscleGroup: "chest", MovementType: "push", Equipment: equipment("dumbbell")},
	{Name: "Push-ups", MuscleGroup: "chest", MovementType: "push", Equipment: equipment("bodyweight")},
	{Name: "Incline Dumbbell Press", MuscleGroup: "chest", MovementType: "push", Equipment: equipment("dumbbell")},
	{Name: "Cable Fly", MuscleGroup: "chest", MovementType: "push", Equipment: equipment("cable")},
	{Name: "Barbell Back Squat", MuscleGroup: "quads", MovementType: "squat", Equipment: equipment("barbell")},
	{Name: "Leg Press", MuscleGroup: "quads", MovementType: "squat", Equipment: equipment("machine")},
	{Name: "Leg Extension", MuscleGroup: "quads", MovementType: "extension", Equipment: equipment("machine")},
	{Name: "Romanian Deadlift", MuscleGroup: "hamstrings", MovementType: "hinge", Equipment: equipment("barbell")},
	{Name: "Leg Curl", MuscleGroup: "hamstrings", MovementType: "curl", Equipment: equipment("machine")},
	{Name: "Barbell Row", MuscleGroup: "back", MovementType: "pull", Equipment: equipment("barbell")},
	{Name: "Pull-ups", MuscleGroup: "back", MovementType: "pull", Equipment: equipment("bodyweight")},
	{Name: "Lat Pulldown", MuscleGroup: "back", MovementType: "pull", Equipment: equipment("cable")},
	{Name: "Dumbbell Row", MuscleGroup: "back", MovementType: "pull", Equipment: equipment("dumbbell")},
	{Name: "Overhead Press", MuscleGroup: "shoulders", MovementType: "push", Equipment: equipment("barbell")},
	{Name: "Dumbbell Shoulder Press", MuscleGroup: "shoulders", MovementType: "push", Equipment: equipment("dumbbell")},
	{Name: "Lateral Raise", MuscleGroup: "shoulders", MovementType: "isolation", Equipment: equipment("dumbbell")},
	{Name: "Barbell Curl", MuscleGroup: "biceps", MovementType: "pull", Equipment: equipment("barbell")},
	{Name: "Hammer Curl", MuscleGroup: "biceps", MovementType: "pull", Equipment: equipment("dumbbell")},
	{Name: "Triceps Pushdown", MuscleGroup: "triceps", MovementType: "push", Equipment: equipment("cable")},
	{Name: "Skull Crusher", MuscleGroup: "triceps", MovementType: "push", Equipment: equipment("barbell")},
	{Name: "Deadlift", MuscleGroup: "back", MovementType: "hinge", Equipment: equipment("barbell")},
	{Name: "Calf Raise", MuscleGroup: "calves", MovementType: "isolation", Equipment: equipment("machine")},
}

type preloadedProgram struct {
	Name        string
	Description string
	Sessions    []string
}

var seedPrograms = []preloadedProgram{
	{
		Name:        "Full Body Beginner",
		Description: "Three days per week, full body each session.",
		Sessions:    []string{"Day A", "Day B", "Day C"},
	},
	{
		Name:        "Push / Pull / Legs",
		Description: "Classic PPL split, 6 days per week.",
		Sessions:    []string{"Push", "Pull", "Legs"},
	},
	{
		Name:        "Upper / Lower",
		Description: "Four days per week, upper and lower split.",
		Sessions:    []string{"Upper", "Lower"},
	},
}

func text(value string) *string {
	return &value
}

func weeks(value int) *int {
	return &value
}

var seedStorePrograms = []repository.CreateStoreProgramInput{
	{
		Title:         "Beginner Full Body Transformation",
		Description:   text("Perfect for beginners looking to build strength and lose weight. Includes full body workouts 3x per week."),
		Price:         29.99,
		DurationWeeks: weeks(8),
		Difficulty:    text("beginner"),
		Category:      text("strength"),
	},
	{
		Title:         "Advanced HIIT Masterclass",
		Description:   text("High-intensity interval training for experienced athletes. Burn fat and improve cardiovascular endurance."),
		Price:         49.99,
		DurationWeeks: weeks(12),
		Difficulty:    text("advanced"),
		Category:      text("cardio"),
	},
	{
		Title:         "Yoga Flow & Flexibility",
		Description:   text("Improve flexibility, balance, and mindfulness with guided yoga sessions for all levels."),
		Price:         24.99,
		DurationWeeks: weeks(6),
		Difficulty:    text("intermediate"),
		Category:      text("yoga"),
	},
	{
		Title:         "Muscle Building Blueprint",
		Description:   text("Comprehensive hypertrophy program designed to maximize muscle growth with progressive overload."),
		Price:         59.99,
		DurationWeeks: weeks(16),
		Difficulty:    text("intermediate"),
		Category:      text("bodybuilding"),
	},
}
