// Package domain contains the core business entities, value objects, and
// domain logic of the application: diagram categories, source material,
// generated study sets, and conversation turns. It represents the heart of
// the system, independent of any specific infrastructure or delivery
// mechanism.
package domain
