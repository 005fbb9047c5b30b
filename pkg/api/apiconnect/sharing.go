package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/pkg/api"
)

// SharingServiceName is the fully-qualified name of the SharingService.
const SharingServiceName = "sharebook.v1.SharingService"

// Procedure names of the SharingService.
const (
	SharingServiceSendGroupInvitationProcedure = "/sharebook.v1.SharingService/SendGroupInvitation"
	SharingServiceRevokeInvitationProcedure = "/sharebook.v1.SharingService/RevokeInvitation"
	SharingServiceRemoveGroupMemberProcedure = "/sharebook.v1.SharingService/RemoveGroupMember"
	SharingServiceAcceptInvitationProcedure = "/sharebook.v1.SharingService/AcceptInvitation"
	SharingServiceSendShareNotificationProcedure = "/sharebook.v1.SharingService/SendShareNotification"
)

// SharingServiceClient is a client for the sharebook.v1.SharingService service.
type SharingServiceClient interface {
	SendGroupInvitation(context.Context, *connect.Request[api.SendGroupInvitationRequest]) (*connect.Response[api.SendGroupInvitationResponse], error)
	RevokeInvitation(context.Context, *connect.Request[api.RevokeInvitationRequest]) (*connect.Response[api.RevokeInvitationResponse], error)
	RemoveGroupMember(context.Context, *connect.Request[api.RemoveGroupMemberRequest]) (*connect.Response[api.RemoveGroupMemberResponse], error)
	AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error)
	SendShareNotification(context.Context, *connect.Request[api.SendShareNotificationRequest]) (*connect.Response[api.SendShareNotificationResponse], error)
}

// NewSharingServiceClient constructs a client for the sharebook.v1.SharingService service.
// The JSON codec is applied before opts.
func NewSharingServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SharingServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &sharingServiceClient{
		sendGroupInvitation: connect.NewClient[api.SendGroupInvitationRequest, api.SendGroupInvitationResponse](
			httpClient,
			baseURL+SharingServiceSendGroupInvitationProcedure,
			opts...,
		),
		revokeInvitation: connect.NewClient[api.RevokeInvitationRequest, api.RevokeInvitationResponse](
			httpClient,
			baseURL+SharingServiceRevokeInvitationProcedure,
			opts...,
		),
		removeGroupMember: connect.NewClient[api.RemoveGroupMemberRequest, api.RemoveGroupMemberResponse](
			httpClient,
			baseURL+SharingServiceRemoveGroupMemberProcedure,
			opts...,
		),
		acceptInvitation: connect.NewClient[api.AcceptInvitationRequest, api.AcceptInvitationResponse](
			httpClient,
			baseURL+SharingServiceAcceptInvitationProcedure,
			opts...,
		),
		sendShareNotification: connect.NewClient[api.SendShareNotificationRequest, api.SendShareNotificationResponse](
			httpClient,
			baseURL+SharingServiceSendShareNotificationProcedure,
			opts...,
		),
	}
}

type sharingServiceClient struct {
	sendGroupInvitation *connect.Client[api.SendGroupInvitationRequest, api.SendGroupInvitationResponse]
	revokeInvitation *connect.Client[api.RevokeInvitationRequest, api.RevokeInvitationResponse]
	removeGroupMember *connect.Client[api.RemoveGroupMemberRequest, api.RemoveGroupMemberResponse]
	acceptInvitation *connect.Client[api.AcceptInvitationRequest, api.AcceptInvitationResponse]
	sendShareNotification *connect.Client[api.SendShareNotificationRequest, api.SendShareNotificationResponse]
}

// SendGroupInvitation calls sharebook.v1.SharingService.SendGroupInvitation.
func (c *sharingServiceClient) SendGroupInvitation(ctx context.Context, req *connect.Request[api.SendGroupInvitationRequest]) (*connect.Response[api.SendGroupInvitationResponse], error) {
	return c.sendGroupInvitation.CallUnary(ctx, req)
}

// RevokeInvitation calls sharebook.v1.SharingService.RevokeInvitation.
func (c *sharingServiceClient) RevokeInvitation(ctx context.Context, req *connect.Request[api.RevokeInvitationRequest]) (*connect.Response[api.RevokeInvitationResponse], error) {
	return c.revokeInvitation.CallUnary(ctx, req)
}

// RemoveGroupMember calls sharebook.v1.SharingService.RemoveGroupMember.
func (c *sharingServiceClient) RemoveGroupMember(ctx context.Context, req *connect.Request[api.RemoveGroupMemberRequest]) (*connect.Response[api.RemoveGroupMemberResponse], error) {
	return c.removeGroupMember.CallUnary(ctx, req)
}

// AcceptInvitation calls sharebook.v1.SharingService.AcceptInvitation.
func (c *sharingServiceClient) AcceptInvitation(ctx context.Context, req *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	return c.acceptInvitation.CallUnary(ctx, req)
}

// SendShareNotification calls sharebook.v1.SharingService.SendShareNotification.
func (c *sharingServiceClient) SendShareNotification(ctx context.Context, req *connect.Request[api.SendShareNotificationRequest]) (*connect.Response[api.SendShareNotificationResponse], error) {
	return c.sendShareNotification.CallUnary(ctx, req)
}

// SharingServiceHandler is an implementation of the sharebook.v1.SharingService service.
type SharingServiceHandler interface {
	SendGroupInvitation(context.Context, *connect.Request[api.SendGroupInvitationRequest]) (*connect.Response[api.SendGroupInvitationResponse], error)
	RevokeInvitation(context.Context, *connect.Request[api.RevokeInvitationRequest]) (*connect.Response[api.RevokeInvitationResponse], error)
	RemoveGroupMember(context.Context, *connect.Request[api.RemoveGroupMemberRequest]) (*connect.Response[api.RemoveGroupMemberResponse], error)
	AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error)
	SendShareNotification(context.Context, *connect.Request[api.SendShareNotificationRequest]) (*connect.Response[api.SendShareNotificationResponse], error)
}

// NewSharingServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSharingServiceHandler(svc SharingServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	sharingServiceSendGroupInvitationHandler := connect.NewUnaryHandler(
		SharingServiceSendGroupInvitationProcedure,
		svc.SendGroupInvitation,
		opts...,
	)
	sharingServiceRevokeInvitationHandler := connect.NewUnaryHandler(
		SharingServiceRevokeInvitationProcedure,
		svc.RevokeInvitation,
		opts...,
	)
	sharingServiceRemoveGroupMemberHandler := connect.NewUnaryHandler(
		SharingServiceRemoveGroupMemberProcedure,
		svc.RemoveGroupMember,
		opts...,
	)
	sharingServiceAcceptInvitationHandler := connect.NewUnaryHandler(
		SharingServiceAcceptInvitationProcedure,
		svc.AcceptInvitation,
		opts...,
	)
	sharingServiceSendShareNotificationHandler := connect.NewUnaryHandler(
		SharingServiceSendShareNotificationProcedure,
		svc.SendShareNotification,
		opts...,
	)
	return "/sharebook.v1.SharingService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SharingServiceSendGroupInvitationProcedure:
			sharingServiceSendGroupInvitationHandler.ServeHTTP(w, r)
		case SharingServiceRevokeInvitationProcedure:
			sharingServiceRevokeInvitationHandler.ServeHTTP(w, r)
		case SharingServiceRemoveGroupMemberProcedure:
			sharingServiceRemoveGroupMemberHandler.ServeHTTP(w, r)
		case SharingServiceAcceptInvitationProcedure:
			sharingServiceAcceptInvitationHandler.ServeHTTP(w, r)
		case SharingServiceSendShareNotificationProcedure:
			sharingServiceSendShareNotificationHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSharingServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSharingServiceHandler struct{}

func (UnimplementedSharingServiceHandler) SendGroupInvitation(context.Context, *connect.Request[api.SendGroupInvitationRequest]) (*connect.Response[api.SendGroupInvitationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.SharingService.SendGroupInvitation is not implemented"))
}

func (UnimplementedSharingServiceHandler) RevokeInvitation(context.Context, *connect.Request[api.RevokeInvitationRequest]) (*connect.Response[api.RevokeInvitationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.SharingService.RevokeInvitation is not implemented"))
}

func (UnimplementedSharingServiceHandler) RemoveGroupMember(context.Context, *connect.Request[api.RemoveGroupMemberRequest]) (*connect.Response[api.RemoveGroupMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.SharingService.RemoveGroupMember is not implemented"))
}

func (UnimplementedSharingServiceHandler) AcceptInvitation(context.Context, *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.SharingService.AcceptInvitation is not implemented"))
}

func (UnimplementedSharingServiceHandler) SendShareNotification(context.Context, *connect.Request[api.SendShareNotificationRequest]) (*connect.Response[api.SendShareNotificationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.SharingService.SendShareNotification is not implemented"))
}
