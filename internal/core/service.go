package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/actnexus/internal/core/model"
	"github.com/agenthands/actnexus/internal/core/profile"
	"github.com/agenthands/actnexus/internal/core/qualification"
	"github.com/agenthands/actnexus/internal/core/reconcile"
)

const noteUnknownClient = "Cliente '%s' não encontrado no cadastro."

// ErrQualificationDisabled is returned by Qualify when no LLM is configured.
var ErrQualificationDisabled = errors.New("qualification generation is not configured")

// Service is the entry point used by the HTTP server and the CLI.
type Service struct {
	Orchestrator *reconcile.Orchestrator
	Profiles     profile.Store
	Resolver     *profile.Resolver
	Qualifier    *qualification.Generator

	logger *zap.Logger
}

func NewService(orch *reconcile.Orchestrator, store profile.Store, resolver *profile.Resolver, qualifier *qualification.Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Orchestrator: orch,
		Profiles:     store,
		Resolver:     resolver,
		Qualifier:    qualifier,
		logger:       logger,
	}
}

// Verify reconciles a minute against the profiles supplied by the caller.
func (s *Service) Verify(ctx context.Context, req model.ReconciliationRequest) (*model.ReconciliationReport, error) {
	return s.Orchestrator.Reconcile(ctx, req)
}

// VerifyParties resolves the named parties in the registry and reconciles the
// minute against the profiles found. Unknown names become general
// observations.
func (s *Service) VerifyParties(ctx context.Context, req model.PartiesRequest) (*model.ReconciliationReport, error) {
	if s.Resolver == nil {
		return nil, errors.New("profile registry is not configured")
	}
	res, err := s.Resolver.Resolve(ctx, req.ClientNames)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve parties: %w", err)
	}

	report, err := s.Orchestrator.Reconcile(ctx, model.ReconciliationRequest{
		MinuteText:     req.MinuteText,
		ClientProfiles: res.Profiles,
	})
	if err != nil {
		return nil, err
	}

	if len(res.Missing) > 0 {
		s.logger.Info("parties missing from registry", zap.Int("missing", len(res.Missing)))
		notes := make([]string, 0, len(res.Missing)+len(report.Geral))
		for _, name := range res.Missing {
			notes = append(notes, fmt.Sprintf(noteUnknownClient, name))
		}
		report.Geral = append(notes, report.Geral...)
	}
	return report, nil
}

// SaveProfile upserts a profile in the registry.
func (s *Service) SaveProfile(ctx context.Context, p model.ClientProfile) error {
	if s.Profiles == nil {
		return errors.New("profile registry is not configured")
	}
	p = p.Clone()
	p.Nome = strings.TrimSpace(p.Nome)
	if p.Nome == "" {
		return &model.InvalidInputError{Reason: "perfil sem nome"}
	}

	fields := p.DadosAdicionais[:0]
	for _, f := range p.DadosAdicionais {
		f.Label = strings.TrimSpace(f.Label)
		f.Value = strings.TrimSpace(f.Value)
		if f.Label == "" || f.Value == "" {
			continue
		}
		fields = append(fields, f)
	}
	p.DadosAdicionais = fields

	if err := s.Profiles.Save(ctx, p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Qualify writes the qualification paragraph of a party.
func (s *Service) Qualify(ctx context.Context, p model.ClientProfile) (string, error) {
	if s.Qualifier == nil {
		return "", ErrQualificationDisabled
	}
	return s.Qualifier.Generate(ctx, p)
}
