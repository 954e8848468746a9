// Package conflicts is the war/siege/mercenary domain system: a read-only
// producer of commands.Command values, never a mutator of world state.
// Army movement is BFS over region adjacency; everything else observes
// per army/faction and enqueues commands for the applicator to resolve.
//
// Monthly work (every tick): mercenary wages and desertion, supply and
// attrition, retreat checks, marches, battles, siege progression, and
// collapsed-side peace. Yearly work: war declarations between unstable
// enemies, musters for belligerents without an army, mercenary company
// formation and hiring, and weariness-driven peace in long wars.
package conflicts

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/talgya/mini-world/internal/commands"
	"github.com/talgya/mini-world/internal/entitymap"
	"github.com/talgya/mini-world/internal/eventlog"
	"github.com/talgya/mini-world/internal/queue"
	"github.com/talgya/mini-world/internal/relations"
	"github.com/talgya/mini-world/internal/scheduler"
	"github.com/talgya/mini-world/internal/simclock"
	"github.com/talgya/mini-world/internal/simworld"
)

const domainName = "conflicts"

const (
	fullSupplyMonths   = 3.0
	attritionRate      = 0.1
	roughTerrainAttrition = 0.05
	disbandStrengthFloor  = 1.0

	retreatMoraleFloor = 0.2
	exhaustionFloor    = 0.2

	assaultMoraleFloor = 0.4
	minAssaultMonths   = 2

	mercWagePerStrength = 2.0
	mercHireFee         = 200
	mercFormationChance = 0.25
	desertionFactor     = 0.8

	baseWarChance        = 0.1
	instabilityWarWeight = 0.3

	warWearinessYears  = 5.0
	peaceChancePerYear = 0.2
	maxPeaceChance     = 0.8
)

// Domain holds the read-only world handle and the shared command queue this
// system enqueues into.
type Domain struct {
	World *simworld.World
	Out   *queue.Queue[commands.Command]
}

// New wires a conflicts domain against a world and the shared command queue.
func New(w *simworld.World, out *queue.Queue[commands.Command]) *Domain {
	return &Domain{World: w, Out: out}
}

// Register attaches the monthly campaign tick and the yearly strategic
// review to the scheduler, both in the Update phase. The yearly system runs
// after the monthly one so declarations and musters observe the same state
// the campaign logic just read.
func (d *Domain) Register(s *scheduler.Scheduler) {
	s.Register(scheduler.System{
		Domain:    domainName,
		Phase:     scheduler.Update,
		Frequency: scheduler.Monthly,
		Run:       func(scheduler.Gate) { d.Tick() },
	})
	s.Register(scheduler.System{
		Domain:    domainName + ".strategy",
		Phase:     scheduler.Update,
		Frequency: scheduler.Yearly,
		After:     []string{domainName},
		Run:       func(scheduler.Gate) { d.YearlyTick() },
	})
}

// Tick observes current state and enqueues this month's intents: pay the
// free companies, burn supply, pull broken armies home, continue marches,
// progress sieges into surrenders or assaults, resolve armies that share a
// region while at war, and sue for peace on behalf of a collapsed side.
func (d *Domain) Tick() {
	w := d.World
	now := w.Clock.Minute

	d.payMercenaries()
	d.applySupplyAndAttrition()

	for _, armyID := range w.SortedArmyIDs() {
		army := w.Armies[armyID]
		if !army.Alive() {
			continue
		}

		if army.BesiegingSettID != nil {
			d.progressSiege(army, *army.BesiegingSettID, now)
			continue
		}

		if d.checkRetreat(army) {
			continue
		}

		d.resolveFieldEncounter(army, now)
	}

	d.checkCollapsedWars()
}

// YearlyTick runs the strategic review: new wars, musters, the mercenary
// market, and weariness-driven peace.
func (d *Domain) YearlyTick() {
	now := d.World.Clock.Minute
	d.checkWarDeclarations(now)
	d.musterArmies(now)
	d.manageMercenaries()
	d.checkWarWeariness(now)
}

// payMercenaries charges each employer a monthly wage per point of company
// strength. An employer whose treasury cannot cover the wage loses the
// contract, and the unpaid company bleeds deserters.
func (d *Domain) payMercenaries() {
	w := d.World
	for _, armyID := range w.SortedArmyIDs() {
		army := w.Armies[armyID]
		if !army.Alive() || !army.Mercenary || army.FactionID == 0 {
			continue
		}
		employer, ok := w.Factions[army.FactionID]
		if !ok || !employer.Alive() {
			d.push(commands.Command{
				Kind:        commands.EndMercenaryContract{ArmyID: armyID},
				EventKind:   eventlog.KindMercenaryContractEnded,
				Description: fmt.Sprintf("%s's paymaster is gone; the contract lapses", army.Name),
				Participants: []eventlog.Participant{
					{EntityID: armyID, Role: eventlog.RoleSubject},
				},
			})
			continue
		}
		wage := int64(army.Strength * mercWagePerStrength)
		if wage <= 0 {
			wage = 1
		}
		if employer.Treasury >= uint64(wage) {
			d.push(commands.Command{
				Kind:          commands.AdjustFactionStats{FactionID: employer.SimID, TreasuryDelta: -wage},
				IsBookkeeping: true,
			})
			continue
		}
		d.push(commands.Command{
			Kind:        commands.EndMercenaryContract{ArmyID: armyID},
			EventKind:   eventlog.KindMercenaryContractEnded,
			Description: fmt.Sprintf("%s goes unpaid and abandons %s", army.Name, employer.Name),
			Participants: []eventlog.Participant{
				{EntityID: armyID, Role: eventlog.RoleSubject},
				{EntityID: employer.SimID, Role: eventlog.RoleObject},
			},
		})
		d.pushArmyField(army, "strength", army.Strength, army.Strength*desertionFactor)
	}
}

// applySupplyAndAttrition burns one month of supply for every army
// campaigning outside its home region and melts strength once the supply
// runs dry, faster in arid or rugged country. Armies that waste away are
// disbanded; armies resting at home restock.
func (d *Domain) applySupplyAndAttrition() {
	w := d.World
	for _, armyID := range w.SortedArmyIDs() {
		army := w.Armies[armyID]
		if !army.Alive() {
			continue
		}
		atHome := army.CurrentRegionID == army.HomeRegionID && army.BesiegingSettID == nil
		if atHome {
			if army.Supply < fullSupplyMonths {
				d.pushArmyField(army, "supply", army.Supply, fullSupplyMonths)
			}
			continue
		}
		if army.Supply > 0 {
			d.pushArmyField(army, "supply", army.Supply, math.Max(0, army.Supply-1))
			continue
		}
		rate := attritionRate
		if region, ok := w.Regions[army.CurrentRegionID]; ok && (region.Arid || region.Rugged) {
			rate += roughTerrainAttrition
		}
		remaining := army.Strength * (1 - rate)
		if remaining < disbandStrengthFloor {
			d.push(commands.Command{
				Kind:        commands.DisbandArmy{ArmyID: armyID},
				EventKind:   eventlog.KindArmyDisbanded,
				Description: fmt.Sprintf("%s starves in the field and scatters", army.Name),
				Participants: []eventlog.Participant{
					{EntityID: armyID, Role: eventlog.RoleSubject},
				},
			})
			continue
		}
		d.pushArmyField(army, "strength", army.Strength, remaining)
	}
}

// checkRetreat pulls a broken army one region back toward home. Reports
// whether a retreat was ordered, in which case the army does nothing else
// this month.
func (d *Domain) checkRetreat(army *simworld.Army) bool {
	if army.Morale >= retreatMoraleFloor {
		return false
	}
	if army.CurrentRegionID == army.HomeRegionID {
		return false
	}
	next, ok := bfsNextStep(d.World, army.CurrentRegionID, army.HomeRegionID)
	if !ok {
		return false
	}
	d.push(commands.Command{
		Kind:        commands.MarchArmy{ArmyID: army.SimID, DestRegionID: next},
		EventKind:   eventlog.KindArmyMarch,
		Description: fmt.Sprintf("%s falls back toward home", army.Name),
		Participants: []eventlog.Participant{
			{EntityID: army.SimID, Role: eventlog.RoleSubject},
		},
	})
	return true
}

// progressSiege rolls the besieged settlement's monthly surrender check —
// starved towns yield sooner, walls buy time — and otherwise commits the
// besieger to an assault once the siege is old enough and the army still
// has the stomach for it.
func (d *Domain) progressSiege(army *simworld.Army, settlementID uint64, now uint64) {
	w := d.World
	siege, ok := w.ActiveSieges[settlementID]
	if !ok {
		return
	}
	sett, ok := w.Settlements[settlementID]
	if !ok || !sett.Alive() {
		return
	}
	months := int((now - siege.StartedAt) / simclock.MinutesPerMonth)
	if months < 1 {
		return
	}

	rng := w.RNG.Stream(domainName)
	base := 0.05
	switch {
	case months >= 5:
		base = 0.3
	case months >= 3:
		base = 0.15
	}
	surrender := base * (1.5 - sett.Prosperity) / (1 + 0.3*float64(sett.FortificationLevel))
	if rng.Float64() < surrender {
		d.push(commands.Command{
			Kind:        commands.CaptureSettlement{SettlementID: settlementID, NewFactionID: army.FactionID},
			EventKind:   eventlog.KindConquest,
			Description: fmt.Sprintf("%s opens its gates to %s", sett.Name, army.Name),
			Participants: []eventlog.Participant{
				{EntityID: army.SimID, Role: eventlog.RoleAttacker},
				{EntityID: settlementID, Role: eventlog.RoleDefender},
			},
		})
		return
	}

	if months >= minAssaultMonths && army.Morale >= assaultMoraleFloor {
		d.push(commands.Command{
			Kind:        commands.ResolveAssault{ArmyID: army.SimID, SettlementID: settlementID},
			EventKind:   eventlog.KindAssaultResolved,
			Description: fmt.Sprintf("%s storms the walls", army.Name),
			Participants: []eventlog.Participant{
				{EntityID: army.SimID, Role: eventlog.RoleAttacker},
				{EntityID: settlementID, Role: eventlog.RoleDefender},
			},
		})
	}
}

// resolveFieldEncounter looks for an enemy army occupying the same region
// and, if found, enqueues a battle; otherwise it advances one step along a
// BFS path toward the nearest enemy-held settlement its faction is at war
// with.
func (d *Domain) resolveFieldEncounter(army *simworld.Army, now uint64) {
	w := d.World
	for _, otherID := range w.SortedArmyIDs() {
		if otherID == army.SimID {
			continue
		}
		other := w.Armies[otherID]
		if !other.Alive() || other.CurrentRegionID != army.CurrentRegionID {
			continue
		}
		if !w.Relations.AreAtWar(army.FactionID, other.FactionID) {
			continue
		}
		if army.SimID < other.SimID {
			d.push(commands.Command{
				Kind:        commands.ResolveBattle{ArmyA: army.SimID, ArmyB: other.SimID},
				EventKind:   eventlog.KindBattleResolved,
				Description: fmt.Sprintf("%s clashes with %s", army.Name, other.Name),
				Participants: []eventlog.Participant{
					{EntityID: army.SimID, Role: eventlog.RoleAttacker},
					{EntityID: other.SimID, Role: eventlog.RoleDefender},
				},
			})
		}
		return
	}

	target := d.nearestEnemySettlement(army)
	if target == nil {
		return
	}
	if target.RegionID == army.CurrentRegionID {
		if _, besieged := w.ActiveSieges[target.SimID]; !besieged {
			d.push(commands.Command{
				Kind:        commands.BeginSiege{ArmyID: army.SimID, SettlementID: target.SimID},
				EventKind:   eventlog.KindSiegeBegun,
				Description: fmt.Sprintf("%s lays siege to %s", army.Name, target.Name),
				Participants: []eventlog.Participant{
					{EntityID: army.SimID, Role: eventlog.RoleAttacker},
					{EntityID: target.SimID, Role: eventlog.RoleDefender},
				},
			})
		}
		return
	}
	next, ok := bfsNextStep(w, army.CurrentRegionID, target.RegionID)
	if !ok {
		return
	}
	d.push(commands.Command{
		Kind:        commands.MarchArmy{ArmyID: army.SimID, DestRegionID: next},
		EventKind:   eventlog.KindArmyMarch,
		Description: fmt.Sprintf("%s marches toward %s", army.Name, target.Name),
		Participants: []eventlog.Participant{
			{EntityID: army.SimID, Role: eventlog.RoleSubject},
		},
	})
}

// nearestEnemySettlement finds the closest (by BFS hop count) settlement
// owned by a faction army's faction is at war with.
func (d *Domain) nearestEnemySettlement(army *simworld.Army) *simworld.Settlement {
	w := d.World
	var best *simworld.Settlement
	bestDist := -1
	for _, settID := range w.SortedSettlementIDs() {
		sett := w.Settlements[settID]
		if !sett.Alive() {
			continue
		}
		if !w.Relations.AreAtWar(army.FactionID, sett.OwnerFactionID) {
			continue
		}
		dist, ok := bfsDistance(w, army.CurrentRegionID, sett.RegionID)
		if !ok {
			continue
		}
		if bestDist == -1 || dist < bestDist || (dist == bestDist && sett.SimID < best.SimID) {
			best = sett
			bestDist = dist
		}
	}
	return best
}

// bfsDistance returns the hop count between two regions over the
// Neighbors adjacency graph, skipping water regions (land armies cannot
// cross ocean).
func bfsDistance(w *simworld.World, from, to uint64) (int, bool) {
	path, ok := bfsPath(w, from, to)
	if !ok {
		return 0, false
	}
	return len(path) - 1, true
}

// bfsNextStep returns the region id one hop along the shortest path from
// `from` toward `to`.
func bfsNextStep(w *simworld.World, from, to uint64) (uint64, bool) {
	path, ok := bfsPath(w, from, to)
	if !ok || len(path) < 2 {
		return 0, false
	}
	return path[1], true
}

// bfsPath performs a breadth-first search over region adjacency, visiting
// neighbors in sorted order so the path chosen is deterministic regardless
// of map iteration order.
func bfsPath(w *simworld.World, from, to uint64) ([]uint64, bool) {
	if from == to {
		return []uint64{from}, true
	}
	visited := map[uint64]bool{from: true}
	prev := map[uint64]uint64{}
	queue := []uint64{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		region, ok := w.Regions[cur]
		if !ok {
			continue
		}
		neighbors := append([]uint64(nil), region.Neighbors...)
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
		for _, n := range neighbors {
			if visited[n] {
				continue
			}
			next, ok := w.Regions[n]
			if !ok || next.Water {
				continue
			}
			visited[n] = true
			prev[n] = cur
			if n == to {
				return reconstructPath(prev, from, to), true
			}
			queue = append(queue, n)
		}
	}
	return nil, false
}

func reconstructPath(prev map[uint64]uint64, from, to uint64) []uint64 {
	var path []uint64
	for cur := to; ; {
		path = append([]uint64{cur}, path...)
		if cur == from {
			break
		}
		cur = prev[cur]
	}
	return path
}

// checkCollapsedWars sues for peace on behalf of a faction that mustered
// armies for a war and has seen their combined living strength fall below
// a token floor, via a decisive SignTreaty in the enemy's favor. A faction
// that never fielded an army is left alone — it has nothing to collapse.
func (d *Domain) checkCollapsedWars() {
	w := d.World
	for _, entry := range w.Relations.All() {
		if entry.Kind != relations.AtWar || !entry.Row.Active() {
			continue
		}
		countA, strengthA := factionArmies(w, entry.Pair.A)
		countB, strengthB := factionArmies(w, entry.Pair.B)
		switch {
		case countA > 0 && strengthA < exhaustionFloor && strengthB >= exhaustionFloor:
			d.sueForPeace(entry.Pair.A, entry.Pair.B, entry.Pair.B, entry.Pair.A, true)
		case countB > 0 && strengthB < exhaustionFloor && strengthA >= exhaustionFloor:
			d.sueForPeace(entry.Pair.A, entry.Pair.B, entry.Pair.A, entry.Pair.B, true)
		}
	}
}

// checkWarWeariness winds down old wars: past five years the per-year
// chance of a negotiated peace grows linearly, capped at 0.8. The stronger
// side takes the winner's seat but the treaty is not decisive — nobody
// collapsed, they just stopped.
func (d *Domain) checkWarWeariness(now uint64) {
	w := d.World
	rng := w.RNG.Stream(domainName)
	for _, entry := range w.Relations.All() {
		if entry.Kind != relations.AtWar || !entry.Row.Active() {
			continue
		}
		years := float64(now-entry.Row.Start) / float64(simclock.MinutesPerYear)
		if years <= warWearinessYears {
			continue
		}
		p := math.Min(maxPeaceChance, peaceChancePerYear*(years-warWearinessYears))
		if rng.Float64() >= p {
			continue
		}
		_, strengthA := factionArmies(w, entry.Pair.A)
		_, strengthB := factionArmies(w, entry.Pair.B)
		winner, loser := entry.Pair.A, entry.Pair.B
		if strengthB > strengthA {
			winner, loser = entry.Pair.B, entry.Pair.A
		}
		d.sueForPeace(entry.Pair.A, entry.Pair.B, winner, loser, false)
	}
}

// checkWarDeclarations turns festering enmity into open war: for each
// active enemy pair whose factions hold bordering territory, the chance of
// a declaration grows with their combined instability. The shakier
// government is the one that reaches for the sword.
func (d *Domain) checkWarDeclarations(now uint64) {
	w := d.World
	rng := w.RNG.Stream(domainName)
	for _, entry := range w.Relations.All() {
		if entry.Kind != relations.Enemy || !entry.Row.Active() {
			continue
		}
		a, okA := w.Factions[entry.Pair.A]
		b, okB := w.Factions[entry.Pair.B]
		if !okA || !okB || !a.Alive() || !b.Alive() {
			continue
		}
		if !factionsBorder(w, a.SimID, b.SimID) {
			continue
		}
		instability := 1 - (a.Stability+b.Stability)/2
		if rng.Float64() >= baseWarChance+instabilityWarWeight*instability {
			continue
		}
		attacker, defender := a, b
		if b.Stability < a.Stability {
			attacker, defender = b, a
		}
		d.push(commands.Command{
			Kind:        commands.DeclareWar{Attacker: attacker.SimID, Defender: defender.SimID},
			EventKind:   eventlog.KindWarDeclared,
			Description: fmt.Sprintf("%s declares war on %s", attacker.Name, defender.Name),
			Participants: []eventlog.Participant{
				{EntityID: attacker.SimID, Role: eventlog.RoleAttacker},
				{EntityID: defender.SimID, Role: eventlog.RoleDefender},
			},
		})
	}
}

// musterArmies raises a levy for every belligerent faction that has no
// living army, based out of its first settlement and scaled to that
// settlement's population.
func (d *Domain) musterArmies(now uint64) {
	w := d.World
	for _, fid := range w.SortedFactionIDs() {
		f := w.Factions[fid]
		if !f.Alive() {
			continue
		}
		if len(w.Relations.Partners(relations.AtWar, fid)) == 0 {
			continue
		}
		if count, _ := liveArmies(w, fid); count > 0 {
			continue
		}
		var home *simworld.Settlement
		for _, settID := range w.SortedSettlementIDs() {
			sett := w.Settlements[settID]
			if sett.Alive() && sett.OwnerFactionID == fid {
				home = sett
				break
			}
		}
		if home == nil {
			continue
		}
		strength := 30 + float64(home.Population.Total)*0.1
		d.push(commands.Command{
			Kind:        commands.MusterArmy{FactionID: fid, HomeRegionID: home.RegionID, Strength: strength},
			EventKind:   eventlog.KindMuster,
			Description: fmt.Sprintf("%s raises a levy at %s", f.Name, home.Name),
			Participants: []eventlog.Participant{
				{EntityID: fid, Role: eventlog.RoleSubject},
				{EntityID: home.SimID, Role: eventlog.RoleLocation},
			},
		})
	}
}

// manageMercenaries keeps the free-company market turning: while wars rage
// and no company is on the road, one may form; outnumbered belligerents
// with coin to spare engage whichever company is idle.
func (d *Domain) manageMercenaries() {
	w := d.World
	rng := w.RNG.Stream(domainName)

	var companies, idle []uint64
	for _, armyID := range w.SortedArmyIDs() {
		army := w.Armies[armyID]
		if !army.Alive() || !army.Mercenary {
			continue
		}
		companies = append(companies, armyID)
		if army.FactionID == 0 {
			idle = append(idle, armyID)
		}
	}

	anyWar := false
	for _, entry := range w.Relations.All() {
		if entry.Kind == relations.AtWar && entry.Row.Active() {
			anyWar = true
			break
		}
	}

	if anyWar && len(companies) == 0 && rng.Float64() < mercFormationChance {
		if region := firstLandRegion(w); region != 0 {
			d.push(commands.Command{
				Kind:        commands.CreateMercenaryCompany{HomeRegionID: region, Strength: 40 + rng.Float64()*40},
				EventKind:   eventlog.KindMercenaryCompanyFormed,
				Description: "a free company raises its banner",
				Participants: []eventlog.Participant{
					{EntityID: region, Role: eventlog.RoleLocation},
				},
			})
		}
	}

	for _, fid := range w.SortedFactionIDs() {
		if len(idle) == 0 {
			break
		}
		f := w.Factions[fid]
		if !f.Alive() || f.Treasury < mercHireFee {
			continue
		}
		enemies := w.Relations.Partners(relations.AtWar, fid)
		if len(enemies) == 0 {
			continue
		}
		_, own := liveArmies(w, fid)
		outnumbered := false
		for _, enemy := range enemies {
			if _, theirs := liveArmies(w, enemy); theirs > own {
				outnumbered = true
				break
			}
		}
		if !outnumbered {
			continue
		}
		company := idle[0]
		idle = idle[1:]
		d.push(commands.Command{
			Kind:        commands.HireMercenary{FactionID: fid, CompanyArmyID: company},
			EventKind:   eventlog.KindMercenaryHired,
			Description: fmt.Sprintf("%s engages %s", f.Name, w.Armies[company].Name),
			Participants: []eventlog.Participant{
				{EntityID: fid, Role: eventlog.RoleSubject},
				{EntityID: company, Role: eventlog.RoleObject},
			},
		})
		d.push(commands.Command{
			Kind:          commands.AdjustFactionStats{FactionID: fid, TreasuryDelta: -mercHireFee},
			IsBookkeeping: true,
		})
	}
}

// factionsBorder reports whether two factions hold settlements in the same
// or adjacent regions.
func factionsBorder(w *simworld.World, a, b uint64) bool {
	regionsOf := func(fid uint64) map[uint64]bool {
		set := make(map[uint64]bool)
		for _, settID := range w.SortedSettlementIDs() {
			sett := w.Settlements[settID]
			if sett.Alive() && sett.OwnerFactionID == fid {
				set[sett.RegionID] = true
			}
		}
		return set
	}
	regionsA, regionsB := regionsOf(a), regionsOf(b)
	for rid := range regionsA {
		if regionsB[rid] {
			return true
		}
		region, ok := w.Regions[rid]
		if !ok {
			continue
		}
		for _, n := range region.Neighbors {
			if regionsB[n] {
				return true
			}
		}
	}
	return false
}

// firstLandRegion returns the lowest-id non-water region, or 0 if none.
func firstLandRegion(w *simworld.World) uint64 {
	for _, rid := range w.SortedRegionIDs() {
		if region := w.Regions[rid]; !region.Water {
			return rid
		}
	}
	return 0
}

// liveArmies returns the count and combined strength of a faction's living
// armies.
func liveArmies(w *simworld.World, factionID uint64) (int, float64) {
	var count int
	var total float64
	for _, armyID := range w.SortedArmyIDs() {
		a := w.Armies[armyID]
		if a.Alive() && a.FactionID == factionID {
			count++
			total += a.Strength
		}
	}
	return count, total
}

// factionArmies returns the number of armies a faction has ever fielded
// (alive or not) and the combined strength of the living ones.
func factionArmies(w *simworld.World, factionID uint64) (int, float64) {
	var fielded int
	var live float64
	for _, armyID := range w.SortedArmyIDs() {
		a := w.Armies[armyID]
		if a.FactionID != factionID {
			continue
		}
		fielded++
		if a.Alive() {
			live += a.Strength
		}
	}
	return fielded, live
}

func (d *Domain) sueForPeace(a, b, winner, loser uint64, decisive bool) {
	d.push(commands.Command{
		Kind:        commands.SignTreaty{A: a, B: b, Winner: winner, Loser: loser, Decisive: decisive},
		EventKind:   eventlog.KindWarEnded,
		Description: "the war grinds to a close",
		Participants: []eventlog.Participant{
			{EntityID: winner, Role: eventlog.RoleSubject},
			{EntityID: loser, Role: eventlog.RoleObject},
		},
	})
}

// pushArmyField enqueues a bookkeeping write of one numeric army field.
func (d *Domain) pushArmyField(army *simworld.Army, field string, from, to float64) {
	d.push(commands.Command{
		Kind: commands.SetField{
			EntityID:   army.SimID,
			EntityKind: uint8(entitymap.KindArmy),
			Field:      field,
			OldValue:   strconv.FormatFloat(from, 'f', -1, 64),
			NewValue:   strconv.FormatFloat(to, 'f', -1, 64),
		},
		IsBookkeeping: true,
	})
}

func (d *Domain) push(cmd commands.Command) {
	d.Out.Push(cmd)
}
