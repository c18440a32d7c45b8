// Package catalog seeds the built-in exercise library. Seeded documents
// carry IsDefault=true and no creator, so they are shared across every
// trainer and protected from deletion at the repository layer.
package catalog

import (
	"context"
	"fmt"

	"coachkit/trainer-app/internal/domain"
	"coachkit/trainer-app/internal/repository"
)

// Seed inserts the default exercises if none exist yet. It is safe to call
// on every startup.
func Seed(ctx context.Context, repo repository.ExerciseRepository) error {
	count, err := repo.CountDefaults(ctx)
	if err != nil {
		return fmt.Errorf("counting default exercises: %w", err)
	}
	if count > 0 {
		return nil
	}
	for i := range Defaults {
		ex := Defaults[i]
		if _, err := repo.Create(ctx, &ex); err != nil {
			return fmt.Errorf("seeding exercise %q: %w", ex.Name, err)
		}
	}
	return nil
}

func def(name string, modality domain.Modality, groups []string, pattern, category, instructions string) domain.Exercise {
	return domain.Exercise{
		Name:            name,
		Modality:        modality,
		MuscleGroups:    groups,
		MovementPattern: pattern,
		Category:        category,
		Instructions:    instructions,
		IsDefault:       true,
	}
}

// Defaults is the built-in exercise library: strength work grouped by body
// part, then cardio, then flexibility and mobility.
var Defaults = []domain.Exercise{
	// Chest
	def("Barbell Bench Press", domain.ModalityStrength, []string{"Chest", "Triceps", "Shoulders"}, "Push", "Compound", "Lie on a flat bench, lower the bar to the chest, then press it back up."),
	def("Dumbbell Bench Press", domain.ModalityStrength, []string{"Chest", "Triceps", "Shoulders"}, "Push", "Compound", "Lie on a flat bench with a dumbbell in each hand and press both up together."),
	def("Incline Dumbbell Press", domain.ModalityStrength, []string{"Upper Chest", "Shoulders", "Triceps"}, "Push", "Compound", "On a bench inclined 30-45 degrees, press the dumbbells up over the upper chest."),
	def("Push-ups", domain.ModalityStrength, []string{"Chest", "Triceps", "Core"}, "Push", "Bodyweight", "From a plank, lower until the chest nearly touches the floor, then push back up."),
	def("Cable Fly", domain.ModalityStrength, []string{"Chest"}, "Fly", "Isolation", "Stand between the cable stacks and bring both handles together in front of the chest."),
	def("Dumbbell Fly", domain.ModalityStrength, []string{"Chest"}, "Fly", "Isolation", "Lying on a bench, open the dumbbells out wide and bring them together over the chest."),
	// Back
	def("Deadlift", domain.ModalityStrength, []string{"Lower Back", "Glutes", "Hamstrings", "Traps"}, "Hinge", "Compound", "Grip the bar from the floor and stand up tall, keeping the back flat."),
	def("Barbell Row", domain.ModalityStrength, []string{"Upper Back", "Lats", "Biceps"}, "Pull", "Compound", "Hinge forward and pull the bar to the stomach."),
	def("Pull-ups", domain.ModalityStrength, []string{"Lats", "Biceps", "Upper Back"}, "Pull", "Bodyweight", "Hang from the bar and pull up until the chin clears it."),
	def("Lat Pulldown", domain.ModalityStrength, []string{"Lats", "Biceps", "Upper Back"}, "Pull", "Compound", "Seated at the machine, pull the bar down to the upper chest."),
	def("Seated Cable Row", domain.ModalityStrength, []string{"Middle Back", "Lats", "Biceps"}, "Pull", "Compound", "Seated with a neutral spine, pull the handle to the torso."),
	def("T-Bar Row", domain.ModalityStrength, []string{"Middle Back", "Lats"}, "Pull", "Compound", "Straddle the bar, hinge forward, and row the handle to the chest."),
	// Legs
	def("Barbell Squat", domain.ModalityStrength, []string{"Quadriceps", "Glutes", "Hamstrings"}, "Squat", "Compound", "With the bar on the upper back, squat until the thighs are parallel, then drive up."),
	def("Front Squat", domain.ModalityStrength, []string{"Quadriceps", "Core", "Glutes"}, "Squat", "Compound", "With the bar racked on the front of the shoulders, squat down and stand back up."),
	def("Leg Press", domain.ModalityStrength, []string{"Quadriceps", "Glutes", "Hamstrings"}, "Push", "Compound", "Seated in the machine, press the platform away without locking the knees."),
	def("Romanian Deadlift", domain.ModalityStrength, []string{"Hamstrings", "Glutes", "Lower Back"}, "Hinge", "Compound", "With a slight knee bend, hinge at the hips lowering the bar along the legs."),
	def("Leg Extension", domain.ModalityStrength, []string{"Quadriceps"}, "Extension", "Isolation", "Seated in the machine, extend the knees until the legs are straight."),
	def("Leg Curl", domain.ModalityStrength, []string{"Hamstrings"}, "Curl", "Isolation", "Curl the pad toward the glutes by flexing the knees."),
	def("Lunges", domain.ModalityStrength, []string{"Quadriceps", "Glutes", "Hamstrings"}, "Lunge", "Compound", "Step forward and lower the back knee toward the floor, then push back up."),
	def("Bulgarian Split Squat", domain.ModalityStrength, []string{"Quadriceps", "Glutes"}, "Lunge", "Compound", "With the rear foot elevated on a bench, squat down on the front leg."),
	def("Calf Raise", domain.ModalityStrength, []string{"Calves"}, "Raise", "Isolation", "Rise onto the toes, pause at the top, and lower under control."),
	// Shoulders
	def("Overhead Press", domain.ModalityStrength, []string{"Shoulders", "Triceps"}, "Push", "Compound", "Press the bar from the shoulders to overhead, finishing with arms locked out."),
	def("Dumbbell Shoulder Press", domain.ModalityStrength, []string{"Shoulders", "Triceps"}, "Push", "Compound", "Seated or standing, press the dumbbells from shoulder height to overhead."),
	def("Dumbbell Lateral Raise", domain.ModalityStrength, []string{"Shoulders"}, "Raise", "Isolation", "Raise the dumbbells out to the sides to shoulder height."),
	def("Front Raise", domain.ModalityStrength, []string{"Front Shoulders"}, "Raise", "Isolation", "Raise the dumbbells straight in front to shoulder height."),
	def("Rear Delt Fly", domain.ModalityStrength, []string{"Rear Shoulders", "Upper Back"}, "Fly", "Isolation", "Hinged forward, raise the dumbbells out to the sides squeezing the rear delts."),
	def("Arnold Press", domain.ModalityStrength, []string{"Shoulders", "Triceps"}, "Push", "Compound", "Start palms facing you and rotate the dumbbells outward while pressing overhead."),
	// Arms
	def("Barbell Curl", domain.ModalityStrength, []string{"Biceps"}, "Curl", "Isolation", "Curl the bar from full extension to the shoulders without swinging."),
	def("Dumbbell Curl", domain.ModalityStrength, []string{"Biceps"}, "Curl", "Isolation", "Curl the dumbbells up, supinating the wrists through the movement."),
	def("Hammer Curl", domain.ModalityStrength, []string{"Biceps", "Forearms"}, "Curl", "Isolation", "Curl the dumbbells with a neutral grip, palms facing each other."),
	def("Preacher Curl", domain.ModalityStrength, []string{"Biceps"}, "Curl", "Isolation", "With arms braced on the preacher pad, curl the weight up and lower slowly."),
	def("Tricep Dips", domain.ModalityStrength, []string{"Triceps", "Chest"}, "Push", "Bodyweight", "On parallel bars, lower until the elbows reach ninety degrees, then press up."),
	def("Tricep Pushdown", domain.ModalityStrength, []string{"Triceps"}, "Extension", "Isolation", "At the cable stack, push the bar down until the arms are fully extended."),
	def("Overhead Tricep Extension", domain.ModalityStrength, []string{"Triceps"}, "Extension", "Isolation", "Holding the weight overhead, lower it behind the head and extend back up."),
	def("Close-Grip Bench Press", domain.ModalityStrength, []string{"Triceps", "Chest"}, "Push", "Compound", "Bench press with a narrow grip, keeping the elbows tucked."),
	// Core
	def("Plank", domain.ModalityStrength, []string{"Core", "Abs"}, "Static", "Bodyweight", "Hold a straight line from head to heels on forearms and toes."),
	def("Side Plank", domain.ModalityStrength, []string{"Obliques", "Core"}, "Static", "Bodyweight", "Hold a straight line on one forearm with hips lifted."),
	def("Crunches", domain.ModalityStrength, []string{"Abs"}, "Crunch", "Bodyweight", "Curl the shoulders off the floor toward the knees and lower under control."),
	def("Bicycle Crunches", domain.ModalityStrength, []string{"Abs", "Obliques"}, "Rotation", "Bodyweight", "Alternate touching elbow to opposite knee in a pedaling motion."),
	def("Russian Twist", domain.ModalityStrength, []string{"Obliques", "Core"}, "Rotation", "Bodyweight", "Seated and leaning back, rotate the torso side to side."),
	def("Mountain Climbers", domain.ModalityStrength, []string{"Core", "Shoulders", "Legs"}, "Dynamic", "Bodyweight", "From a plank, drive the knees toward the chest alternately at pace."),
	def("Hanging Leg Raise", domain.ModalityStrength, []string{"Lower Abs", "Hip Flexors"}, "Raise", "Bodyweight", "Hanging from a bar, raise the legs to hip height or higher."),
	def("Cable Wood Chop", domain.ModalityStrength, []string{"Obliques", "Core"}, "Rotation", "Compound", "Pull the cable diagonally across the body from high to low."),
	// Cardio
	def("Running", domain.ModalityCardio, []string{"Legs", "Cardiovascular"}, "Locomotion", "Steady State", "Run at a conversational pace for the prescribed duration."),
	def("Treadmill Sprints", domain.ModalityCardio, []string{"Legs", "Cardiovascular"}, "Sprint", "HIIT", "Alternate all-out sprints with walking recovery intervals."),
	def("Cycling", domain.ModalityCardio, []string{"Legs", "Cardiovascular"}, "Cycling", "Steady State", "Ride at a steady moderate effort for the prescribed duration."),
	def("Spin Bike Intervals", domain.ModalityCardio, []string{"Legs", "Cardiovascular"}, "Cycling", "HIIT", "Alternate hard pedaling efforts with easy spinning recovery."),
	def("Jump Rope", domain.ModalityCardio, []string{"Calves", "Cardiovascular"}, "Jump", "HIIT", "Skip rope continuously, staying light on the balls of the feet."),
	def("Burpees", domain.ModalityCardio, []string{"Full Body", "Cardiovascular"}, "Compound", "HIIT", "Drop to a push-up, jump the feet in, and leap up overhead."),
	def("Rowing Machine", domain.ModalityCardio, []string{"Back", "Legs", "Cardiovascular"}, "Pull", "Steady State", "Row at a steady pace driving with the legs first, then the arms."),
	def("Rowing Intervals", domain.ModalityCardio, []string{"Back", "Legs", "Cardiovascular"}, "Pull", "HIIT", "Alternate hard rowing pieces with easy paddling recovery."),
	def("Elliptical", domain.ModalityCardio, []string{"Legs", "Cardiovascular"}, "Locomotion", "Steady State", "Stride at a steady moderate resistance for the prescribed duration."),
	def("Swimming", domain.ModalityCardio, []string{"Full Body", "Cardiovascular"}, "Swim", "Steady State", "Swim continuous laps at a sustainable pace."),
	def("Battle Ropes", domain.ModalityCardio, []string{"Arms", "Shoulders", "Core", "Cardiovascular"}, "Wave", "HIIT", "Make alternating waves with the ropes as fast as possible for the interval."),
	def("Box Jumps", domain.ModalityCardio, []string{"Legs", "Glutes", "Cardiovascular"}, "Jump", "HIIT", "Jump onto the box with both feet, stand tall, and step down."),
	def("Stair Climber", domain.ModalityCardio, []string{"Legs", "Glutes", "Cardiovascular"}, "Climb", "Steady State", "Climb at a steady pace without leaning on the handles."),
	def("Assault Bike", domain.ModalityCardio, []string{"Full Body", "Cardiovascular"}, "Cycling", "HIIT", "Drive arms and legs together in hard intervals with easy recovery."),
	def("High Knees", domain.ModalityCardio, []string{"Legs", "Core", "Cardiovascular"}, "Run-in-place", "HIIT", "Run in place driving the knees to hip height at pace."),
	// Flexibility and mobility
	def("Hamstring Stretch", domain.ModalityFlexibility, []string{"Hamstrings"}, "Stretch", "Static Stretch", "With one leg extended, hinge forward until a stretch is felt behind the thigh."),
	def("Quad Stretch", domain.ModalityFlexibility, []string{"Quadriceps"}, "Stretch", "Static Stretch", "Standing, pull one heel toward the glutes keeping the knees together."),
	def("Calf Stretch", domain.ModalityFlexibility, []string{"Calves"}, "Stretch", "Static Stretch", "With hands on a wall, press the rear heel into the floor."),
	def("Shoulder Stretch", domain.ModalityFlexibility, []string{"Shoulders"}, "Stretch", "Static Stretch", "Pull one arm across the chest with the opposite hand."),
	def("Tricep Stretch", domain.ModalityFlexibility, []string{"Triceps", "Shoulders"}, "Stretch", "Static Stretch", "Reach one hand down the spine and gently press the elbow with the other hand."),
	def("Chest Stretch", domain.ModalityFlexibility, []string{"Chest", "Shoulders"}, "Stretch", "Static Stretch", "With a forearm on a doorframe, rotate the torso away from the arm."),
	def("Hip Flexor Stretch", domain.ModalityFlexibility, []string{"Hip Flexors", "Quadriceps"}, "Stretch", "Static Stretch", "In a half-kneeling position, push the hips forward."),
	def("Pigeon Pose", domain.ModalityFlexibility, []string{"Glutes", "Hips"}, "Stretch", "Yoga", "Fold the front shin across the mat and extend the rear leg behind."),
	def("Child Pose", domain.ModalityFlexibility, []string{"Back", "Hips", "Shoulders"}, "Stretch", "Yoga", "Sit back on the heels and reach the arms forward along the floor."),
	def("Cat-Cow Stretch", domain.ModalityMobility, []string{"Spine", "Back"}, "Flexion-Extension", "Dynamic Stretch", "On all fours, alternate arching and rounding the spine."),
	def("Downward Dog", domain.ModalityFlexibility, []string{"Hamstrings", "Calves", "Shoulders", "Back"}, "Stretch", "Yoga", "From all fours, lift the hips into an inverted V pressing the heels down."),
	def("Cobra Stretch", domain.ModalityFlexibility, []string{"Abs", "Hip Flexors", "Chest"}, "Extension", "Yoga", "Lying face down, press the chest up while keeping the hips on the floor."),
	def("Spinal Twist", domain.ModalityFlexibility, []string{"Obliques", "Back"}, "Rotation", "Static Stretch", "Lying on the back, drop both knees to one side keeping the shoulders down."),
	def("Butterfly Stretch", domain.ModalityFlexibility, []string{"Inner Thighs", "Hips"}, "Stretch", "Static Stretch", "Seated with soles together, let the knees fall toward the floor."),
	def("Seated Forward Bend", domain.ModalityFlexibility, []string{"Hamstrings", "Back"}, "Stretch", "Yoga", "Seated with legs extended, fold forward reaching toward the toes."),
	def("Standing Quad Stretch", domain.ModalityFlexibility, []string{"Quadriceps"}, "Stretch", "Static Stretch", "Standing on one leg, pull the other heel to the glutes."),
	def("Hip Circles", domain.ModalityMobility, []string{"Hips"}, "Rotation", "Dynamic Stretch", "With hands on hips, draw slow circles with the pelvis in both directions."),
	def("Arm Circles", domain.ModalityMobility, []string{"Shoulders"}, "Rotation", "Dynamic Stretch", "Extend the arms and draw circles, small to large, forward and back."),
	def("Leg Swings", domain.ModalityMobility, []string{"Hip Flexors", "Hamstrings"}, "Swing", "Dynamic Stretch", "Holding support, swing one leg forward and back through a full range."),
	def("Foam Rolling - IT Band", domain.ModalityFlexibility, []string{"IT Band", "Quads"}, "Self-Myofascial Release", "Foam Rolling", "Roll slowly along the outside of the thigh, pausing on tight spots."),
	def("Foam Rolling - Quads", domain.ModalityFlexibility, []string{"Quadriceps"}, "Self-Myofascial Release", "Foam Rolling", "Face down, roll slowly from hip to knee along the front of the thigh."),
	def("Foam Rolling - Back", domain.ModalityFlexibility, []string{"Upper Back", "Middle Back"}, "Self-Myofascial Release", "Foam Rolling", "Roll slowly along the upper and middle back with arms crossed."),
}
