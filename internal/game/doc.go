// Package game implements the rules engine for a Texas Hold'em variant played
// with a 48-card deck and an energy pool that pays for table effects.
//
// The main type is Session, which owns the seats and plays one hand at a time.
// Each hand is driven through its stages (blinds, hole cards, preflop, flop,
// turn, river, showdown) against an explicit HandState; betting within a
// stage is handled by BettingRound.
//
// # Basic Usage
//
//	seats := []game.Seat{
//	    {Player: game.NewPlayer(0, "You", false, 1000), Decider: human},
//	    {Player: game.NewPlayer(1, "AI_1", true, 1000), Decider: game.NewAIDecider(rng)},
//	    {Player: game.NewPlayer(2, "AI_2", true, 1000), Decider: game.NewAIDecider(rng)},
//	}
//	s, err := game.NewSession(game.DefaultRules(), seats, game.WithRNG(rng))
//	summary, err := s.PlayHand(ctx)
//
// # Deciders
//
// Every seat has a Decider. AIDecider answers synchronously from hand strength,
// bet pressure and one random roll. HumanDecider suspends the hand until
// SubmitAction is called from the presentation layer, and is the only place
// the engine waits on the outside world.
//
// # Deterministic Testing
//
// All randomness (shuffles, AI rolls, peek targets) comes from *rand.Rand
// values passed in by the caller, so a fixed seed replays a session exactly.
// WithDeckFactory substitutes stacked decks for scripted scenarios.
package game
