package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/pkg/api"
)

// EntityServiceName is the fully-qualified name of the EntityService.
const EntityServiceName = "sharebook.v1.EntityService"

// Procedure names of the EntityService.
const (
	EntityServiceGetUserProcedure = "/sharebook.v1.EntityService/GetUser"
	EntityServiceGetGroupProcedure = "/sharebook.v1.EntityService/GetGroup"
	EntityServiceGetGroupInfoProcedure = "/sharebook.v1.EntityService/GetGroupInfo"
	EntityServiceListSentInvitationsProcedure = "/sharebook.v1.EntityService/ListSentInvitations"
	EntityServiceGetSentInvitationProcedure = "/sharebook.v1.EntityService/GetSentInvitation"
	EntityServiceListGroupMembersProcedure = "/sharebook.v1.EntityService/ListGroupMembers"
	EntityServiceGetGroupMemberProcedure = "/sharebook.v1.EntityService/GetGroupMember"
	EntityServiceGetCustomerProcedure = "/sharebook.v1.EntityService/GetCustomer"
	EntityServiceGetAccountingInfoProcedure = "/sharebook.v1.EntityService/GetAccountingInfo"
)

// EntityServiceClient is a client for the sharebook.v1.EntityService service.
type EntityServiceClient interface {
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	GetGroupInfo(context.Context, *connect.Request[api.GetGroupInfoRequest]) (*connect.Response[api.GetGroupInfoResponse], error)
	ListSentInvitations(context.Context, *connect.Request[api.ListSentInvitationsRequest]) (*connect.Response[api.ListSentInvitationsResponse], error)
	GetSentInvitation(context.Context, *connect.Request[api.GetSentInvitationRequest]) (*connect.Response[api.GetSentInvitationResponse], error)
	ListGroupMembers(context.Context, *connect.Request[api.ListGroupMembersRequest]) (*connect.Response[api.ListGroupMembersResponse], error)
	GetGroupMember(context.Context, *connect.Request[api.GetGroupMemberRequest]) (*connect.Response[api.GetGroupMemberResponse], error)
	GetCustomer(context.Context, *connect.Request[api.GetCustomerRequest]) (*connect.Response[api.GetCustomerResponse], error)
	GetAccountingInfo(context.Context, *connect.Request[api.GetAccountingInfoRequest]) (*connect.Response[api.GetAccountingInfoResponse], error)
}

// NewEntityServiceClient constructs a client for the sharebook.v1.EntityService service.
// The JSON codec is applied before opts.
func NewEntityServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EntityServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &entityServiceClient{
		getUser: connect.NewClient[api.GetUserRequest, api.GetUserResponse](
			httpClient,
			baseURL+EntityServiceGetUserProcedure,
			opts...,
		),
		getGroup: connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](
			httpClient,
			baseURL+EntityServiceGetGroupProcedure,
			opts...,
		),
		getGroupInfo: connect.NewClient[api.GetGroupInfoRequest, api.GetGroupInfoResponse](
			httpClient,
			baseURL+EntityServiceGetGroupInfoProcedure,
			opts...,
		),
		listSentInvitations: connect.NewClient[api.ListSentInvitationsRequest, api.ListSentInvitationsResponse](
			httpClient,
			baseURL+EntityServiceListSentInvitationsProcedure,
			opts...,
		),
		getSentInvitation: connect.NewClient[api.GetSentInvitationRequest, api.GetSentInvitationResponse](
			httpClient,
			baseURL+EntityServiceGetSentInvitationProcedure,
			opts...,
		),
		listGroupMembers: connect.NewClient[api.ListGroupMembersRequest, api.ListGroupMembersResponse](
			httpClient,
			baseURL+EntityServiceListGroupMembersProcedure,
			opts...,
		),
		getGroupMember: connect.NewClient[api.GetGroupMemberRequest, api.GetGroupMemberResponse](
			httpClient,
			baseURL+EntityServiceGetGroupMemberProcedure,
			opts...,
		),
		getCustomer: connect.NewClient[api.GetCustomerRequest, api.GetCustomerResponse](
			httpClient,
			baseURL+EntityServiceGetCustomerProcedure,
			opts...,
		),
		getAccountingInfo: connect.NewClient[api.GetAccountingInfoRequest, api.GetAccountingInfoResponse](
			httpClient,
			baseURL+EntityServiceGetAccountingInfoProcedure,
			opts...,
		),
	}
}

type entityServiceClient struct {
	getUser *connect.Client[api.GetUserRequest, api.GetUserResponse]
	getGroup *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	getGroupInfo *connect.Client[api.GetGroupInfoRequest, api.GetGroupInfoResponse]
	listSentInvitations *connect.Client[api.ListSentInvitationsRequest, api.ListSentInvitationsResponse]
	getSentInvitation *connect.Client[api.GetSentInvitationRequest, api.GetSentInvitationResponse]
	listGroupMembers *connect.Client[api.ListGroupMembersRequest, api.ListGroupMembersResponse]
	getGroupMember *connect.Client[api.GetGroupMemberRequest, api.GetGroupMemberResponse]
	getCustomer *connect.Client[api.GetCustomerRequest, api.GetCustomerResponse]
	getAccountingInfo *connect.Client[api.GetAccountingInfoRequest, api.GetAccountingInfoResponse]
}

// GetUser calls sharebook.v1.EntityService.GetUser.
func (c *entityServiceClient) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

// GetGroup calls sharebook.v1.EntityService.GetGroup.
func (c *entityServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

// GetGroupInfo calls sharebook.v1.EntityService.GetGroupInfo.
func (c *entityServiceClient) GetGroupInfo(ctx context.Context, req *connect.Request[api.GetGroupInfoRequest]) (*connect.Response[api.GetGroupInfoResponse], error) {
	return c.getGroupInfo.CallUnary(ctx, req)
}

// ListSentInvitations calls sharebook.v1.EntityService.ListSentInvitations.
func (c *entityServiceClient) ListSentInvitations(ctx context.Context, req *connect.Request[api.ListSentInvitationsRequest]) (*connect.Response[api.ListSentInvitationsResponse], error) {
	return c.listSentInvitations.CallUnary(ctx, req)
}

// GetSentInvitation calls sharebook.v1.EntityService.GetSentInvitation.
func (c *entityServiceClient) GetSentInvitation(ctx context.Context, req *connect.Request[api.GetSentInvitationRequest]) (*connect.Response[api.GetSentInvitationResponse], error) {
	return c.getSentInvitation.CallUnary(ctx, req)
}

// ListGroupMembers calls sharebook.v1.EntityService.ListGroupMembers.
func (c *entityServiceClient) ListGroupMembers(ctx context.Context, req *connect.Request[api.ListGroupMembersRequest]) (*connect.Response[api.ListGroupMembersResponse], error) {
	return c.listGroupMembers.CallUnary(ctx, req)
}

// GetGroupMember calls sharebook.v1.EntityService.GetGroupMember.
func (c *entityServiceClient) GetGroupMember(ctx context.Context, req *connect.Request[api.GetGroupMemberRequest]) (*connect.Response[api.GetGroupMemberResponse], error) {
	return c.getGroupMember.CallUnary(ctx, req)
}

// GetCustomer calls sharebook.v1.EntityService.GetCustomer.
func (c *entityServiceClient) GetCustomer(ctx context.Context, req *connect.Request[api.GetCustomerRequest]) (*connect.Response[api.GetCustomerResponse], error) {
	return c.getCustomer.CallUnary(ctx, req)
}

// GetAccountingInfo calls sharebook.v1.EntityService.GetAccountingInfo.
func (c *entityServiceClient) GetAccountingInfo(ctx context.Context, req *connect.Request[api.GetAccountingInfoRequest]) (*connect.Response[api.GetAccountingInfoResponse], error) {
	return c.getAccountingInfo.CallUnary(ctx, req)
}

// EntityServiceHandler is an implementation of the sharebook.v1.EntityService service.
type EntityServiceHandler interface {
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	GetGroupInfo(context.Context, *connect.Request[api.GetGroupInfoRequest]) (*connect.Response[api.GetGroupInfoResponse], error)
	ListSentInvitations(context.Context, *connect.Request[api.ListSentInvitationsRequest]) (*connect.Response[api.ListSentInvitationsResponse], error)
	GetSentInvitation(context.Context, *connect.Request[api.GetSentInvitationRequest]) (*connect.Response[api.GetSentInvitationResponse], error)
	ListGroupMembers(context.Context, *connect.Request[api.ListGroupMembersRequest]) (*connect.Response[api.ListGroupMembersResponse], error)
	GetGroupMember(context.Context, *connect.Request[api.GetGroupMemberRequest]) (*connect.Response[api.GetGroupMemberResponse], error)
	GetCustomer(context.Context, *connect.Request[api.GetCustomerRequest]) (*connect.Response[api.GetCustomerResponse], error)
	GetAccountingInfo(context.Context, *connect.Request[api.GetAccountingInfoRequest]) (*connect.Response[api.GetAccountingInfoResponse], error)
}

// NewEntityServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewEntityServiceHandler(svc EntityServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	entityServiceGetUserHandler := connect.NewUnaryHandler(
		EntityServiceGetUserProcedure,
		svc.GetUser,
		opts...,
	)
	entityServiceGetGroupHandler := connect.NewUnaryHandler(
		EntityServiceGetGroupProcedure,
		svc.GetGroup,
		opts...,
	)
	entityServiceGetGroupInfoHandler := connect.NewUnaryHandler(
		EntityServiceGetGroupInfoProcedure,
		svc.GetGroupInfo,
		opts...,
	)
	entityServiceListSentInvitationsHandler := connect.NewUnaryHandler(
		EntityServiceListSentInvitationsProcedure,
		svc.ListSentInvitations,
		opts...,
	)
	entityServiceGetSentInvitationHandler := connect.NewUnaryHandler(
		EntityServiceGetSentInvitationProcedure,
		svc.GetSentInvitation,
		opts...,
	)
	entityServiceListGroupMembersHandler := connect.NewUnaryHandler(
		EntityServiceListGroupMembersProcedure,
		svc.ListGroupMembers,
		opts...,
	)
	entityServiceGetGroupMemberHandler := connect.NewUnaryHandler(
		EntityServiceGetGroupMemberProcedure,
		svc.GetGroupMember,
		opts...,
	)
	entityServiceGetCustomerHandler := connect.NewUnaryHandler(
		EntityServiceGetCustomerProcedure,
		svc.GetCustomer,
		opts...,
	)
	entityServiceGetAccountingInfoHandler := connect.NewUnaryHandler(
		EntityServiceGetAccountingInfoProcedure,
		svc.GetAccountingInfo,
		opts...,
	)
	return "/sharebook.v1.EntityService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case EntityServiceGetUserProcedure:
			entityServiceGetUserHandler.ServeHTTP(w, r)
		case EntityServiceGetGroupProcedure:
			entityServiceGetGroupHandler.ServeHTTP(w, r)
		case EntityServiceGetGroupInfoProcedure:
			entityServiceGetGroupInfoHandler.ServeHTTP(w, r)
		case EntityServiceListSentInvitationsProcedure:
			entityServiceListSentInvitationsHandler.ServeHTTP(w, r)
		case EntityServiceGetSentInvitationProcedure:
			entityServiceGetSentInvitationHandler.ServeHTTP(w, r)
		case EntityServiceListGroupMembersProcedure:
			entityServiceListGroupMembersHandler.ServeHTTP(w, r)
		case EntityServiceGetGroupMemberProcedure:
			entityServiceGetGroupMemberHandler.ServeHTTP(w, r)
		case EntityServiceGetCustomerProcedure:
			entityServiceGetCustomerHandler.ServeHTTP(w, r)
		case EntityServiceGetAccountingInfoProcedure:
			entityServiceGetAccountingInfoHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedEntityServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedEntityServiceHandler struct{}

func (UnimplementedEntityServiceHandler) GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.EntityService.GetUser is not implemented"))
}

func (UnimplementedEntityServiceHandler) GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.EntityService.GetGroup is not implemented"))
}

func (UnimplementedEntityServiceHandler) GetGroupInfo(context.Context, *connect.Request[api.GetGroupInfoRequest]) (*connect.Response[api.GetGroupInfoResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.EntityService.GetGroupInfo is not implemented"))
}

func (UnimplementedEntityServiceHandler) ListSentInvitations(context.Context, *connect.Request[api.ListSentInvitationsRequest]) (*connect.Response[api.ListSentInvitationsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.EntityService.ListSentInvitations is not implemented"))
}

func (UnimplementedEntityServiceHandler) GetSentInvitation(context.Context, *connect.Request[api.GetSentInvitationRequest]) (*connect.Response[api.GetSentInvitationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.EntityService.GetSentInvitation is not implemented"))
}

func (UnimplementedEntityServiceHandler) ListGroupMembers(context.Context, *connect.Request[api.ListGroupMembersRequest]) (*connect.Response[api.ListGroupMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.EntityService.ListGroupMembers is not implemented"))
}

func (UnimplementedEntityServiceHandler) GetGroupMember(context.Context, *connect.Request[api.GetGroupMemberRequest]) (*connect.Response[api.GetGroupMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.EntityService.GetGroupMember is not implemented"))
}

func (UnimplementedEntityServiceHandler) GetCustomer(context.Context, *connect.Request[api.GetCustomerRequest]) (*connect.Response[api.GetCustomerResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.EntityService.GetCustomer is not implemented"))
}

func (UnimplementedEntityServiceHandler) GetAccountingInfo(context.Context, *connect.Request[api.GetAccountingInfoRequest]) (*connect.Response[api.GetAccountingInfoResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.EntityService.GetAccountingInfo is not implemented"))
}
