package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recipehub/recipehub-server/internal/service"
)

func (s *Server) registerUnitRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "convertUnit",
		Method:      http.MethodGet,
		Path:        "/api/units/convert",
		Summary:     "Convert amount",
		Description: "Converts an amount between metric and imperial units",
		Tags:        []string{"Units"},
		Security:    bearer,
	}, s.handleConvertUnit)
}

// ConvertUnitInput contains parameters for a conversion.
type ConvertUnitInput struct {
	Authorization string  `header:"Authorization"`
	Amount        float64 `query:"amount" doc:"Amount to convert"`
	Unit          string  `query:"unit" doc:"Unit of the amount, e.g. g, cup, fl oz"`
	System        string  `query:"system" doc:"Target system: metric or imperial"`
}

// ConvertUnitOutput wraps a conversion for Huma.
type ConvertUnitOutput struct {
	Body *service.Conversion
}

func (s *Server) handleConvertUnit(ctx context.Context, input *ConvertUnitInput) (*ConvertUnitOutput, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}

	conversion, err := service.ConvertAmount(input.Amount, input.Unit, input.System)
	if err != nil {
		return nil, err
	}
	return &ConvertUnitOutput{Body: conversion}, nil
}
