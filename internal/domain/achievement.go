package domain

// Rarity tiers are ordered; Rank gives the ordering.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rank returns 0 for common up to 4 for legendary, -1 for unknown tiers.
func (r Rarity) Rank() int {
	switch r {
	case RarityCommon:
		return 0
	case RarityUncommon:
		return 1
	case RarityRare:
		return 2
	case RarityEpic:
		return 3
	case RarityLegendary:
		return 4
	}
	return -1
}

// Achievement ids.
const (
	AchievementFirstLogin       = "first_login"
	AchievementFirstWorkout     = "first_workout"
	AchievementWorkoutCompleted = "workout_completed"
	AchievementWeekWarrior      = "week_warrior"
	AchievementMonthMaster      = "month_master"
	AchievementWeightLogged     = "weight_logged"
	AchievementProfileComplete  = "profile_complete"
	AchievementRoutineCreated   = "routine_created"
	AchievementFiveRoutines     = "five_routines"
	AchievementIronLifter       = "iron_lifter"
	AchievementConsistencyKing  = "consistency_king"
	AchievementTenKilos         = "ten_kilos"
)

// Achievement is a badge definition from the fixed catalog.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      Rarity `json:"rarity"`
}

var catalog = []Achievement{
	{AchievementFirstLogin, "🎯 Primera Sesión", "Inicia sesión por primera vez", RarityCommon},
	{AchievementFirstWorkout, "💪 Primer Entrenamiento", "Completa tu primer entrenamiento", RarityCommon},
	{AchievementWorkoutCompleted, "✅ Entrenador Dedicado", "Completa un entrenamiento", RarityCommon},
	{AchievementWeekWarrior, "🔥 Guerrero de la Semana", "Completa 5 entrenamientos en una semana", RarityRare},
	{AchievementMonthMaster, "👑 Maestro del Mes", "Completa 20 entrenamientos en un mes", RarityEpic},
	{AchievementWeightLogged, "⚖️ Rastreador de Peso", "Registra tu peso 5 veces", RarityCommon},
	{AchievementProfileComplete, "📋 Perfil Completo", "Completa toda la información de tu perfil", RarityCommon},
	{AchievementRoutineCreated, "📅 Planificador", "Crea tu primera rutina personalizada", RarityUncommon},
	{AchievementFiveRoutines, "🎨 Maestro de Rutinas", "Crea 5 rutinas diferentes", RarityRare},
	{AchievementIronLifter, "⚔️ Levantador de Hierro", "Realiza 100 entrenamientos", RarityEpic},
	{AchievementConsistencyKing, "🏅 Rey de la Consistencia", "Entrena 30 días consecutivos", RarityLegendary},
	{AchievementTenKilos, "⬇️ Primera Pérdida", "Pierde 10 kg", RarityRare},
}

var catalogIndex = func() map[string]Achievement {
	m := make(map[string]Achievement, len(catalog))
	for _, a := range catalog {
		m[a.ID] = a
	}
	return m
}()

// Catalog returns a copy of every badge definition in display order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// LookupAchievement finds a badge by id.
func LookupAchievement(id string) (Achievement, bool) {
	a, ok := catalogIndex[id]
	return a, ok
}
