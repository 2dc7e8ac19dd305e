package city

const (
	MaxFortDefense        = 50
	VictoryClearedBlocks  = 10
	MaxLogEntries         = 200
	BaseTaskDuration      = 1
	MinTaskDuration       = 1
	SickHealthThreshold   = 50
	MaxHealth             = 100
	MaxMorale             = 100
	MaxReputation         = 100
	DefaultHealth         = 100
	DefaultMorale         = 75
	DefaultFactionRep     = 50
	HousingCapacityBonus  = 5
	WorkshopProduction    = 3
	WatchtowerDefense     = 5
	FortWorkBase          = 5
	SkillGain             = 1
	ConsultantSkillTotal  = 5
	LeaderSkillTotal      = 5
	leaderRerollLimit     = 32
	StartingSurvivors     = 5
	StartingCapacity      = 5
	StartingFood          = 50
	StartingMaterials     = 30
	StartingFortDefense   = 10
	RecruitFoodCost       = 10
	RecruitMaterialCost   = 5
	LowFoodWarning        = 10
	LowMaterialsWarning   = 5
	ExpeditionFoodCost    = 5
	ExpeditionMaterials   = 5
	RepairMaterialCost    = 10
	HousingMaterialCost   = 20
	WorkshopMaterialCost  = 15
	LabMaterialCost       = 25
	WatchtowerCost        = 20
	ScoutPostMaterialCost = 30

	// Scavenging draws food from 3..7 and materials from 1..3, both inclusive,
	// before the scavenging skill is added.
	ScavengeFoodMin      = 3
	ScavengeFoodMax      = 7
	ScavengeMaterialsMin = 1
	ScavengeMaterialsMax = 3

	ExpeditionBaseChance     = 0.7
	ExpeditionSkillChance    = 0.05
	ExpeditionLootChance     = 0.3
	ExpeditionAmbushChance   = 0.15
	ExpeditionFailureDamage  = 15
	EquipmentDropChance      = 0.15
	AttackBaseChance         = 0.5
	AttackSkillChance        = 0.05
	AttackReputationPenalty  = 0.005
	AttackFailureDamage      = 20
	AttackStashChance        = 0.5
	AttackReputationLoss     = 10
	AttackReputationGain     = 5
	HealBaseChance           = 0.5
	HealLabChance            = 0.1
	HungerHealthPerDeficit   = 5
	HungerMoralePerDeficit   = 3
	SickMoralePenalty        = 5
	LowMoraleThreshold       = 25
	LowMoraleLogChance       = 0.1
	DespairThreshold         = 10
	DespairDepartureChance   = 0.05
	ZombieAttackDefenseLimit = 20
	ZombieAttackChance       = 0.35
	ZombieAttackMaxStrength  = 5
	BreachDefenseLoss        = 5
	ExpansionReputationLimit = 30
	ExpansionChance          = 0.1
	TradeReputationGain      = 2
	AdvisorLowFood           = 15
	AdvisorLowMaterials      = 10
)

const (
	FactionMarauders = "marauders"
	FactionNomads    = "nomads"
)
