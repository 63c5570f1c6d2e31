package domain

import "context"

// ServicePort defines the service contract for names
type ServicePort interface {
	Normalize(ctx context.Context, in NameInput) (NameReport, error)
	Beautify(ctx context.Context, in NameInput) (NameReport, error)
	Cure(ctx context.Context, in NameInput) (CureReport, error)
	Tokenize(ctx context.Context, in NameInput) (TokenizeReport, error)
	Normalizations(ctx context.Context, in NameInput) (NormalizationsReport, error)
	Process(ctx context.Context, in ProcessInput) (ProcessReport, error)
	Recent(ctx context.Context, in RecentInput) ([]Lookup, error)
}
