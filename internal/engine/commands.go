package engine

import (
	"strconv"
	"strings"

	"github.com/ambonmud/ambonmud/internal/ability"
	"github.com/ambonmud/ambonmud/internal/dialogue"
	"github.com/ambonmud/ambonmud/internal/events"
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/items"
	"github.com/ambonmud/ambonmud/internal/player"
	"github.com/ambonmud/ambonmud/internal/quest"
	"github.com/ambonmud/ambonmud/internal/shop"
	"github.com/ambonmud/ambonmud/internal/world"
)

// commandHandler processes one in-game command line for a session
// already past login (spec §4.12 phase InGame). Grounded on the
// teacher's CommandHandler/CommandRegistry idiom in
// internal/game/commands.go, adapted from a string-returning handler
// to one that sends its own output over the outbound bus since a
// command can address more than just the caller (room broadcasts,
// GMCP pushes).
type commandHandler func(st *player.State, args []string)

// registerCommands builds the verb table once at construction, the
// same shape as the teacher's NewCommandRegistry.
func (e *Engine) registerCommands() {
	e.commands = make(map[string]commandHandler)

	reg := func(names []string, h commandHandler) {
		for _, n := range names {
			e.commands[n] = h
		}
	}

	reg([]string{"look", "l"}, e.cmdLook)
	reg([]string{"say", "'"}, e.cmdSay)
	reg([]string{"inventory", "inv", "i"}, e.cmdInventory)
	reg([]string{"equipment", "eq"}, e.cmdEquipment)
	reg([]string{"equip", "wear", "wield"}, e.cmdEquip)
	reg([]string{"unequip", "remove"}, e.cmdUnequip)
	reg([]string{"use", "drink", "eat"}, e.cmdUse)
	reg([]string{"get", "take"}, e.cmdGet)
	reg([]string{"drop"}, e.cmdDrop)
	reg([]string{"give"}, e.cmdGive)
	reg([]string{"kill", "attack", "k"}, e.cmdKill)
	reg([]string{"cast", "c"}, e.cmdCast)
	reg([]string{"talk", "greet"}, e.cmdTalk)
	reg([]string{"choose"}, e.cmdChoose)
	reg([]string{"accept"}, e.cmdAccept)
	reg([]string{"turnin", "complete"}, e.cmdTurnIn)
	reg([]string{"buy"}, e.cmdBuy)
	reg([]string{"sell"}, e.cmdSell)
	reg([]string{"list", "shop"}, e.cmdList)
	reg([]string{"who"}, e.cmdWho)
	reg([]string{"score", "stats"}, e.cmdScore)
	reg([]string{"quests", "journal"}, e.cmdQuests)
	reg([]string{"quit"}, e.cmdQuit)

	for _, d := range []ids.Direction{ids.North, ids.South, ids.East, ids.West, ids.Up, ids.Down} {
		dir := d
		e.commands[dir.String()] = func(st *player.State, args []string) { e.cmdMove(st, dir) }
	}
	e.commands["n"] = func(st *player.State, args []string) { e.cmdMove(st, ids.North) }
	e.commands["s"] = func(st *player.State, args []string) { e.cmdMove(st, ids.South) }
	e.commands["e"] = func(st *player.State, args []string) { e.cmdMove(st, ids.East) }
	e.commands["w"] = func(st *player.State, args []string) { e.cmdMove(st, ids.West) }
	e.commands["u"] = func(st *player.State, args []string) { e.cmdMove(st, ids.Up) }
	e.commands["d"] = func(st *player.State, args []string) { e.cmdMove(st, ids.Down) }
}

func (e *Engine) handleCommandLine(st *player.State, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		e.sendPrompt(st.SessionId)
		return
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	h, ok := e.commands[verb]
	if !ok {
		e.send(st.SessionId, "Unknown command.")
		e.sendPrompt(st.SessionId)
		return
	}
	h(st, args)
	e.sendPrompt(st.SessionId)
}

func (e *Engine) cmdLook(st *player.State, args []string) {
	room, ok := e.world.Rooms[st.RoomId]
	if !ok {
		e.send(st.SessionId, "You float in the void.")
		return
	}
	var b strings.Builder
	b.WriteString(room.Title)
	b.WriteString("\r\n")
	b.WriteString(room.Description)

	var exits []string
	for dir := range room.Exits {
		exits = append(exits, dir.String())
	}
	if len(exits) > 0 {
		b.WriteString("\r\nExits: " + strings.Join(exits, ", "))
	} else {
		b.WriteString("\r\nThere are no obvious exits.")
	}

	for _, mob := range e.mobReg.InRoom(st.RoomId) {
		b.WriteString("\r\n" + mob.Name + " is here.")
	}
	for _, other := range e.players.InRoom(st.RoomId) {
		if other.SessionId == st.SessionId {
			continue
		}
		b.WriteString("\r\n" + other.Name + " is here.")
	}
	for _, inst := range e.itemReg.RoomItems(st.RoomId) {
		b.WriteString("\r\nOn the ground: " + inst.Item.DisplayName)
	}

	e.send(st.SessionId, b.String())
	e.sendGmcp(st.SessionId, "Room.Info", gmcpRoomInfo(room))
}

func (e *Engine) cmdMove(st *player.State, dir ids.Direction) {
	room, ok := e.world.Rooms[st.RoomId]
	if !ok {
		return
	}
	target, ok := room.Exits[dir]
	if !ok {
		e.send(st.SessionId, "You can't go that way.")
		return
	}
	oldRoom := st.RoomId
	e.broadcastRoom(oldRoom, st.SessionId, st.Name+" leaves "+dir.String()+".")
	e.broadcastGmcpRoom(oldRoom, st.SessionId, "Room.RemovePlayer", gmcpRoomPlayer(st))
	e.players.MoveTo(st.SessionId, target)
	e.dialog.OnPlayerMoved(st.SessionId)
	e.broadcastRoom(target, st.SessionId, st.Name+" arrives from the "+dir.Opposite().String()+".")
	e.broadcastGmcpRoom(target, st.SessionId, "Room.AddPlayer", gmcpRoomPlayer(st))
	e.cmdLook(st, nil)
}

func (e *Engine) cmdSay(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Say what?")
		return
	}
	text := strings.Join(args, " ")
	e.send(st.SessionId, "You say, \""+text+"\"")
	e.broadcastRoom(st.RoomId, st.SessionId, st.Name+" says, \""+text+"\"")
}

func (e *Engine) cmdInventory(st *player.State, args []string) {
	inv := e.itemReg.Inventory(st.SessionId)
	if len(inv) == 0 {
		e.send(st.SessionId, "You are carrying nothing.")
		return
	}
	var b strings.Builder
	b.WriteString("You are carrying:")
	for _, inst := range inv {
		b.WriteString("\r\n  " + inst.Item.DisplayName)
	}
	e.send(st.SessionId, b.String())
}

func (e *Engine) cmdEquipment(st *player.State, args []string) {
	eq := e.itemReg.Equipped(st.SessionId)
	if len(eq) == 0 {
		e.send(st.SessionId, "You have nothing equipped.")
		return
	}
	var b strings.Builder
	b.WriteString("You are wearing:")
	for slot, inst := range eq {
		b.WriteString("\r\n  [" + string(slot) + "] " + inst.Item.DisplayName)
	}
	e.send(st.SessionId, b.String())
}

func (e *Engine) cmdEquip(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Equip what?")
		return
	}
	switch e.itemReg.Equip(st.SessionId, strings.Join(args, " ")) {
	case items.EquipOk:
		e.send(st.SessionId, "Equipped.")
	case items.EquipNotWearable:
		e.send(st.SessionId, "That isn't something you can wear or wield.")
	case items.EquipSlotOccupied:
		e.send(st.SessionId, "You already have something there.")
	case items.EquipNotFound:
		e.send(st.SessionId, "You aren't carrying that.")
	}
}

func (e *Engine) cmdUnequip(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Remove what?")
		return
	}
	slot := parseSlot(args[0])
	if slot == "" {
		e.send(st.SessionId, "Remove from where? Try head, body, or hand.")
		return
	}
	if _, ok := e.itemReg.Unequip(st.SessionId, slot); !ok {
		e.send(st.SessionId, "You have nothing equipped there.")
		return
	}
	e.send(st.SessionId, "Removed.")
}

func (e *Engine) cmdUse(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Use what?")
		return
	}
	inst, result := e.itemReg.Use(st.SessionId, strings.Join(args, " "))
	switch result {
	case items.UseNotFound:
		e.send(st.SessionId, "You aren't carrying that.")
		return
	case items.UseNoCharges:
		e.send(st.SessionId, "It has no charges left.")
		return
	}
	if inst.Item.OnUse == nil {
		e.send(st.SessionId, "Nothing happens.")
		return
	}
	if inst.Item.OnUse.HealHp > 0 {
		st.Hp += inst.Item.OnUse.HealHp
		if st.Hp > st.MaxHp {
			st.Hp = st.MaxHp
		}
		e.send(st.SessionId, "You feel better.")
	}
	if inst.Item.OnUse.GrantXp > 0 {
		e.grantXp(st, inst.Item.OnUse.GrantXp)
	}
	e.sendGmcp(st.SessionId, "Char.Vitals", gmcpVitals(st))
}

func (e *Engine) cmdGet(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Get what?")
		return
	}
	inst, ok := e.itemReg.TakeFromRoom(st.RoomId, strings.Join(args, " "))
	if !ok {
		e.send(st.SessionId, "You don't see that here.")
		return
	}
	e.itemReg.AddToInventory(st.SessionId, inst)
	e.quests.OnItemAcquired(st.SessionId, templateIdOf(inst.Id))
	e.send(st.SessionId, "You pick up "+inst.Item.DisplayName+".")
}

func (e *Engine) cmdDrop(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Drop what?")
		return
	}
	inst, ok := e.itemReg.TakeFromInventory(st.SessionId, strings.Join(args, " "))
	if !ok {
		e.send(st.SessionId, "You aren't carrying that.")
		return
	}
	e.itemReg.AddToRoom(st.RoomId, inst)
	e.send(st.SessionId, "Dropped "+inst.Item.DisplayName+".")
}

func (e *Engine) cmdGive(st *player.State, args []string) {
	if len(args) < 2 {
		e.send(st.SessionId, "Give what to whom?")
		return
	}
	targetName := args[len(args)-1]
	keyword := strings.Join(args[:len(args)-1], " ")

	var toSid ids.SessionId
	found := false
	for _, other := range e.players.InRoom(st.RoomId) {
		if strings.EqualFold(other.Name, targetName) {
			toSid, found = other.SessionId, true
			break
		}
	}
	if !found {
		e.send(st.SessionId, "They aren't here.")
		return
	}
	if e.itemReg.Give(st.SessionId, toSid, keyword) != items.GiveOk {
		e.send(st.SessionId, "You aren't carrying that.")
		return
	}
	e.send(st.SessionId, "Given.")
	e.send(toSid, st.Name+" gives you something.")
}

func (e *Engine) cmdKill(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Kill what?")
		return
	}
	q := strings.ToLower(strings.Join(args, " "))
	for _, mob := range e.mobReg.InRoom(st.RoomId) {
		if strings.Contains(strings.ToLower(mob.Name), q) {
			e.combatE.Engage(st.SessionId, mob.Id, e.clock.NowMs())
			e.send(st.SessionId, "You attack "+mob.Name+"!")
			return
		}
	}
	e.send(st.SessionId, "They aren't here.")
}

func (e *Engine) cmdCast(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Cast what?")
		return
	}
	now := e.clock.NowMs()
	targetMob, hasTarget := e.resolveCastTarget(st, args[1:])
	def, result := e.abilityR.CastCheck(st.SessionId, args[0], st.Mana, now, hasTarget)
	switch result {
	case ability.CastUnknownAbility:
		e.send(st.SessionId, "You don't know an ability by that name.")
		return
	case ability.CastNotLearned:
		e.send(st.SessionId, "You haven't learned that yet.")
		return
	case ability.CastInsufficientMana:
		e.send(st.SessionId, "You don't have enough mana.")
		return
	case ability.CastOnCooldown:
		e.send(st.SessionId, "That isn't ready yet.")
		return
	case ability.CastNoTarget, ability.CastNotInCombat:
		e.send(st.SessionId, "You have no target.")
		return
	}

	e.applyAbilityEffect(st, def, targetMob, now)
	st.Mana -= def.ManaCost
	e.abilityR.Commit(st.SessionId, def, now)
	e.sendGmcp(st.SessionId, "Char.Vitals", gmcpVitals(st))
}

// resolveCastTarget implements the ENEMY-target auto-target rule
// (spec §4.9): a name keyword after the ability name resolves to a mob
// in the caster's room by substring, same as "kill"; with no keyword
// it falls back to whatever mob the caster is already engaged against.
func (e *Engine) resolveCastTarget(st *player.State, nameArgs []string) (ids.MobId, bool) {
	if len(nameArgs) == 0 {
		return e.combatE.Target(st.SessionId)
	}
	q := strings.ToLower(strings.Join(nameArgs, " "))
	for _, mob := range e.mobReg.InRoom(st.RoomId) {
		if strings.Contains(strings.ToLower(mob.Name), q) {
			return mob.Id, true
		}
	}
	return "", false
}

func (e *Engine) applyAbilityEffect(st *player.State, def ability.Definition, targetMob ids.MobId, now int64) {
	switch def.Effect {
	case ability.EffectDirectDamage, ability.EffectTaunt:
		mob, ok := e.mobReg.Get(targetMob)
		if !ok {
			return
		}
		if def.Effect == ability.EffectTaunt {
			e.send(st.SessionId, mob.Name+" turns its attention to you.")
			return
		}
		mob.Hp -= def.Amount
		if mob.Hp <= 0 {
			e.send(st.SessionId, "Your "+def.DisplayName+" finishes off "+mob.Name+"!")
			e.killMob(st, mob, true)
			return
		}
		e.send(st.SessionId, "Your "+def.DisplayName+" hits "+mob.Name+" for "+strconv.Itoa(def.Amount)+" damage.")
	case ability.EffectDirectHeal:
		st.Hp += def.Amount
		if st.Hp > st.MaxHp {
			st.Hp = st.MaxHp
		}
		e.send(st.SessionId, "You cast "+def.DisplayName+" and feel better.")
	case ability.EffectApplyStatus:
		target := statusPlayerOrMob(st.SessionId, targetMob, def.Target)
		e.statusE.Apply(target, def.StatusEffectId, now, st.SessionId, true)
		e.send(st.SessionId, "You cast "+def.DisplayName+".")
	case ability.EffectAreaDamage:
		for _, mob := range e.mobReg.InRoom(st.RoomId) {
			mob.Hp -= def.Amount
			if mob.Hp <= 0 {
				e.killMob(st, mob, true)
			}
		}
		e.send(st.SessionId, "You unleash "+def.DisplayName+".")
	}
}

func (e *Engine) cmdTalk(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Talk to whom?")
		return
	}
	q := strings.ToLower(strings.Join(args, " "))
	var mobId ids.MobId
	found := false
	for _, mob := range e.mobReg.InRoom(st.RoomId) {
		if strings.Contains(strings.ToLower(mob.Name), q) {
			mobId, found = mob.Id, true
			break
		}
	}
	if !found {
		e.send(st.SessionId, "They aren't here.")
		return
	}
	node, choices, ok := e.dialog.Talk(st.SessionId, mobId, e.clock.NowMs())
	if !ok {
		e.send(st.SessionId, "They have nothing to say.")
		return
	}
	e.quests.OnTalkedTo(st.SessionId, mobId)
	e.renderDialogueNode(st.SessionId, node, choices)
}

func (e *Engine) cmdChoose(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Choose which option?")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		e.send(st.SessionId, "Choose a number from the list.")
		return
	}
	node, choices, effect, ok := e.dialog.Choose(st.SessionId, n-1)
	if !ok {
		e.send(st.SessionId, "That isn't a valid choice.")
		return
	}
	if effect != nil {
		e.applyDialogueEffect(st, *effect)
	}
	if len(choices) == 0 && node.Text == "" {
		e.send(st.SessionId, "Farewell.")
		return
	}
	e.renderDialogueNode(st.SessionId, node, choices)
}

func (e *Engine) applyDialogueEffect(st *player.State, eff dialogue.Effect) {
	switch eff.Kind {
	case dialogue.EffectStartQuest:
		e.applyQuestAccept(st, eff.QuestId)
	case dialogue.EffectCompleteQuest:
		e.applyQuestTurnIn(st, eff.QuestId)
	case dialogue.EffectGrantItem:
		if inst, ok := e.itemReg.InstantiateFromTemplate(eff.ItemId); ok {
			e.itemReg.AddToInventory(st.SessionId, inst)
			e.send(st.SessionId, "You receive "+inst.Item.DisplayName+".")
		}
	}
}

func (e *Engine) renderDialogueNode(sid ids.SessionId, node dialogue.Node, choices []dialogue.Choice) {
	if node.Text == "" {
		return
	}
	var b strings.Builder
	b.WriteString(node.Text)
	for i, c := range choices {
		b.WriteString("\r\n  " + strconv.Itoa(i+1) + ") " + c.Text)
	}
	e.send(sid, b.String())
}

func (e *Engine) cmdAccept(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Accept which quest?")
		return
	}
	e.applyQuestAccept(st, args[0])
}

func (e *Engine) applyQuestAccept(st *player.State, questId string) {
	switch e.quests.Accept(st.SessionId, questId, e.clock.NowMs()) {
	case quest.AcceptOk:
		e.send(st.SessionId, "Quest accepted.")
	case quest.AcceptLevelTooLow:
		e.send(st.SessionId, "You aren't ready for that yet.")
	case quest.AcceptAlreadyActive:
		e.send(st.SessionId, "You're already on that quest.")
	case quest.AcceptAlreadyCompleted:
		e.send(st.SessionId, "You've already completed that quest.")
	case quest.AcceptGiverNotInRoom:
		e.send(st.SessionId, "The quest giver isn't here.")
	}
}

func (e *Engine) cmdTurnIn(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Turn in which quest?")
		return
	}
	e.applyQuestTurnIn(st, args[0])
}

func (e *Engine) applyQuestTurnIn(st *player.State, questId string) {
	def, result := e.quests.TurnIn(st.SessionId, questId)
	switch result {
	case quest.TurnInNotActive:
		e.send(st.SessionId, "You aren't on that quest.")
		return
	case quest.TurnInObjectiveIncomplete:
		e.send(st.SessionId, "You haven't finished that yet.")
		return
	}
	st.Gold += def.RewardGold
	for _, itemId := range def.RewardItemIds {
		if inst, ok := e.itemReg.InstantiateFromTemplate(itemId); ok {
			e.itemReg.AddToInventory(st.SessionId, inst)
		}
	}
	e.send(st.SessionId, "Quest complete! You receive "+strconv.Itoa(def.RewardGold)+" gold.")
	e.grantXp(st, def.RewardXp)
	e.players.Save(st.SessionId)
}

func (e *Engine) cmdList(st *player.State, args []string) {
	mobId, ok := e.shopMobInRoom(st)
	if !ok {
		e.send(st.SessionId, "There's no shop here.")
		return
	}
	stocked, prices, ok := e.shops.List(mobId)
	if !ok || len(stocked) == 0 {
		e.send(st.SessionId, "Nothing for sale.")
		return
	}
	var b strings.Builder
	b.WriteString("For sale:")
	for _, id := range stocked {
		tmpl := e.itemTemplates[id]
		b.WriteString("\r\n  " + tmpl.DisplayName + " - " + strconv.Itoa(prices[id]) + " gold")
	}
	e.send(st.SessionId, b.String())
}

func (e *Engine) cmdBuy(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Buy what?")
		return
	}
	mobId, ok := e.shopMobInRoom(st)
	if !ok {
		e.send(st.SessionId, "There's no shop here.")
		return
	}
	itemId, ok := e.resolveShopItem(mobId, strings.Join(args, " "))
	if !ok {
		e.send(st.SessionId, "They don't sell that.")
		return
	}
	price, result := e.shops.Buy(mobId, itemId, st.Gold)
	switch result {
	case shop.BuyUnknownItem:
		e.send(st.SessionId, "They don't sell that.")
		return
	case shop.BuyInsufficientGold:
		e.send(st.SessionId, "You can't afford that.")
		return
	case shop.BuyNoSuchShop:
		e.send(st.SessionId, "There's no shop here.")
		return
	}
	inst, ok := e.itemReg.InstantiateFromTemplate(itemId)
	if !ok {
		return
	}
	st.Gold -= price
	e.itemReg.AddToInventory(st.SessionId, inst)
	e.send(st.SessionId, "Bought "+inst.Item.DisplayName+" for "+strconv.Itoa(price)+" gold.")
}

func (e *Engine) cmdSell(st *player.State, args []string) {
	if len(args) == 0 {
		e.send(st.SessionId, "Sell what?")
		return
	}
	mobId, ok := e.shopMobInRoom(st)
	if !ok {
		e.send(st.SessionId, "There's no shop here.")
		return
	}
	query := strings.Join(args, " ")
	inv := e.itemReg.Inventory(st.SessionId)
	idx := -1
	q := strings.ToLower(query)
	for i, inst := range inv {
		if strings.Contains(strings.ToLower(inst.Item.Keyword), q) || strings.Contains(strings.ToLower(inst.Item.DisplayName), q) {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.send(st.SessionId, "You aren't carrying that.")
		return
	}
	templateId := templateIdOf(inv[idx].Id)
	credit, result := e.shops.Sell(mobId, templateId)
	if result != shop.SellOk {
		e.send(st.SessionId, "They won't buy that.")
		return
	}
	inst, ok := e.itemReg.TakeFromInventory(st.SessionId, query)
	if !ok {
		return
	}
	st.Gold += credit
	e.send(st.SessionId, "Sold "+inst.Item.DisplayName+" for "+strconv.Itoa(credit)+" gold.")
}

// shopMobInRoom finds the shopkeeper mob sharing the caller's room, if
// any of the authored shops is keyed to it.
func (e *Engine) shopMobInRoom(st *player.State) (ids.MobId, bool) {
	for _, mob := range e.mobReg.InRoom(st.RoomId) {
		if _, ok := e.shops.ShopAt(mob.Id); ok {
			return mob.Id, true
		}
	}
	return "", false
}

func (e *Engine) resolveShopItem(mobId ids.MobId, query string) (ids.ItemId, bool) {
	idList, _, ok := e.shops.List(mobId)
	if !ok {
		return "", false
	}
	q := strings.ToLower(query)
	for _, id := range idList {
		tmpl := e.itemTemplates[id]
		if strings.EqualFold(tmpl.Keyword, query) || strings.Contains(strings.ToLower(tmpl.DisplayName), q) {
			return id, true
		}
	}
	return "", false
}

func (e *Engine) cmdWho(st *player.State, args []string) {
	var b strings.Builder
	b.WriteString("Players online:")
	for _, other := range e.players.All() {
		b.WriteString("\r\n  " + other.Name + " (" + string(other.Class) + ", level " + strconv.Itoa(other.Level) + ")")
	}
	e.send(st.SessionId, b.String())
}

func (e *Engine) cmdScore(st *player.State, args []string) {
	e.send(st.SessionId, "Name: "+st.Name+"\r\nClass: "+string(st.Class)+"\r\nRace: "+string(st.Race)+
		"\r\nLevel: "+strconv.Itoa(st.Level)+"\r\nXP: "+strconv.Itoa(st.XpTotal)+
		"\r\nHp: "+strconv.Itoa(st.Hp)+"/"+strconv.Itoa(st.MaxHp)+
		"\r\nMana: "+strconv.Itoa(st.Mana)+"/"+strconv.Itoa(st.MaxMana)+
		"\r\nGold: "+strconv.Itoa(st.Gold))
}

func (e *Engine) cmdQuests(st *player.State, args []string) {
	if len(st.ActiveQuests) == 0 {
		e.send(st.SessionId, "You have no active quests.")
		return
	}
	var b strings.Builder
	b.WriteString("Active quests:")
	for _, q := range st.ActiveQuests {
		b.WriteString("\r\n  " + q)
	}
	e.send(st.SessionId, b.String())
}

func (e *Engine) cmdQuit(st *player.State, args []string) {
	e.send(st.SessionId, "Farewell.")
	e.outbound.Enqueue(events.NewClose(st.SessionId, events.ReasonQuit))
}

func parseSlot(s string) world.Slot {
	switch strings.ToLower(s) {
	case "head":
		return world.SlotHead
	case "body":
		return world.SlotBody
	case "hand":
		return world.SlotHand
	}
	return ""
}

// templateIdOf recovers the template id an inventory instance was
// stamped from, using the "<templateId>#<n>" shape items.Registry's
// nextInstanceId builds (spec §4.11).
func templateIdOf(instId ids.ItemId) ids.ItemId {
	s := string(instId)
	if i := strings.LastIndex(s, "#"); i >= 0 {
		return ids.ItemId(s[:i])
	}
	return instId
}
