package applicator

// registerAllHandlers wires every per-kind handler group into a. Called
// once from New; split across handlers_*.go files by domain grouping so
// each group can be read (and extended) independently.
func registerAllHandlers(a *Applicator) {
	registerLifecycleHandlers(a)
	registerDiplomacyHandlers(a)
	registerMilitaryHandlers(a)
	registerEconomyHandlers(a)
	registerSettlementHandlers(a)
	registerCultureReligionHandlers(a)
	registerDiseaseDisasterHandlers(a)
	registerCrimeHandlers(a)
	registerPoliticsHandlers(a)
	registerItemsKnowledgeHandlers(a)
	registerGenericHandlers(a)
}
