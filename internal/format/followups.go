package format

import "math/rand"

var greetingFollowUps = []string{
	"Могу ли я чем-то помочь?",
	"Что вы хотели бы узнать?",
}

var followUps = []string{
	"Могу ли я помочь чем-то еще?",
	"Интересует ли что-то еще?",
	"Интересно ли узнать что-то еще?",
	"Предоставить какой-нибудь другой прогноз?",
}

// GreetingFollowUp returns a random conversational prompt for after the
// greeting reply.
func GreetingFollowUp() string {
	return greetingFollowUps[rand.Intn(len(greetingFollowUps))]
}

// FollowUp returns a random conversational prompt for after a forecast
// reply.
func FollowUp() string {
	return followUps[rand.Intn(len(followUps))]
}
