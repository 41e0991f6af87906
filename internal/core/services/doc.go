// Package services implements the driving port interfaces.
// Services contain the conversational business logic: intent routing,
// grounded answering, contact collection, turn orchestration and index
// building. They orchestrate calls to driven ports (adapters) and
// never touch transports or storage directly.
package services
